package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnvFile(t *testing.T, path string) {
	t.Helper()
	orig := envFile
	envFile = path
	t.Cleanup(func() { envFile = orig })
}

func TestParseEnv_Variables(t *testing.T) {
	withEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(EnvGRPCAddr, ":6000")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvPresignExpiry, "90s")

	cfg := &Config{EndpointAddrGRPC: ":1", DatabaseDSN: "keep"}
	parseEnv(cfg)

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Second, cfg.PresignExpiry)
	assert.Equal(t, "keep", cfg.DatabaseDSN)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GJ_S3_BUCKET=from-file\nGJ_S3_REGION=eu-north-1\n"), 0o600))
	withEnvFile(t, path)
	// already-set variables win over the file
	t.Setenv(EnvS3Region, "us-east-2")
	t.Cleanup(func() { _ = os.Unsetenv(EnvS3Bucket) })

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "from-file", cfg.S3Bucket)
	assert.Equal(t, "us-east-2", cfg.S3Region)
}

func TestParseEnv_BadDuration(t *testing.T) {
	withEnvFile(t, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv(EnvTokenTTL, "forever")
	assert.Panics(t, func() { parseEnv(&Config{}) })
}
