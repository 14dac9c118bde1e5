package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "journal.db", filepath.Base(c.DatabasePath))
	assert.Equal(t, 5, c.SyncConcurrency)
	assert.Equal(t, 2*time.Minute, c.UploadTimeout)
	assert.Empty(t, c.AccessToken)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_endpoint_addr": "json:1",
		"user_id":              "from-json",
		"sync_concurrency":     2,
	})
	os.Args = []string{"testbin", "-config", path, "-u", "from-flag"}

	cfg := LoadConfig()
	assert.Equal(t, "json:1", cfg.ServerEndpointAddr)
	assert.Equal(t, "from-flag", cfg.UserID)
	assert.Equal(t, 2, cfg.SyncConcurrency)
}
