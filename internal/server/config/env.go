package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvGRPCAddr      = "GJ_GRPC_ADDR"
	EnvOpsAddr       = "GJ_OPS_ADDR"
	EnvDatabaseDSN   = "GJ_DATABASE_DSN"
	EnvSecretKey     = "GJ_SECRET_KEY"
	EnvTokenTTL      = "GJ_TOKEN_TTL"
	EnvS3User        = "GJ_S3_USER"
	EnvS3Password    = "GJ_S3_PASSWORD"
	EnvS3Bucket      = "GJ_S3_BUCKET"
	EnvS3Region      = "GJ_S3_REGION"
	EnvS3Endpoint    = "GJ_S3_ENDPOINT"
	EnvPresignExpiry = "GJ_PRESIGN_EXPIRY"
)

// envFile is loaded before the environment is read. Variables already set
// in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays config with GJ_* variables. Durations use
// time.ParseDuration syntax; unparsable durations panic like bad flags do.
func parseEnv(config *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	setString(&config.EndpointAddrGRPC, os.Getenv(EnvGRPCAddr))
	setString(&config.OpsAddr, os.Getenv(EnvOpsAddr))
	setString(&config.DatabaseDSN, os.Getenv(EnvDatabaseDSN))
	setString(&config.SecretKey, os.Getenv(EnvSecretKey))
	setString(&config.S3RootUser, os.Getenv(EnvS3User))
	setString(&config.S3RootPassword, os.Getenv(EnvS3Password))
	setString(&config.S3Bucket, os.Getenv(EnvS3Bucket))
	setString(&config.S3Region, os.Getenv(EnvS3Region))
	setString(&config.S3BaseEndpoint, os.Getenv(EnvS3Endpoint))
	setDuration(&config.AccessTokenValidityDuration, os.Getenv(EnvTokenTTL))
	setDuration(&config.PresignExpiry, os.Getenv(EnvPresignExpiry))
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
