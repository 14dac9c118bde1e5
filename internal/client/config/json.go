package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/growthjournal/internal/flagx"
	"github.com/dmitrijs2005/growthjournal/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations may be written as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	AccessToken         string         `json:"access_token"`
	UserID              string         `json:"user_id"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogFile             string         `json:"log_file"`
	SyncConcurrency     int            `json:"sync_concurrency"`
	UploadTimeout       timex.Duration `json:"upload_timeout"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Fields absent from the file keep their current value. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.UserID, jc.UserID)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogFile, jc.LogFile)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.UploadTimeout.Duration > 0 {
		cfg.UploadTimeout = jc.UploadTimeout.Duration
	}
	if jc.SyncConcurrency > 0 {
		cfg.SyncConcurrency = jc.SyncConcurrency
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
