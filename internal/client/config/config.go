package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the journal CLI.
//
// ServerEndpointAddr and AccessToken reach the document server; UserID names
// the account whose data is synced. Durations are time.Duration values.
type Config struct {
	ServerEndpointAddr  string
	AccessToken         string
	UserID              string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	LogFile             string
	SyncConcurrency     int
	UploadTimeout       time.Duration
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "growthjournal")
	}
	return "."
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := defaultDataDir()
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = filepath.Join(dir, "journal.db")
	c.OnlineCheckInterval = 3 * time.Second
	c.LogFile = filepath.Join(dir, "client.log")
	c.SyncConcurrency = 5
	c.UploadTimeout = 2 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
