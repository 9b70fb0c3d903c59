package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "", c.LogFile)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "staffdir.db", c.DatabasePath)
	assert.Equal(t, 5*time.Minute, c.SyncInterval)
}

func TestLoadConfig_LayersSharedAndDaemonKeys(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "daemon.json")
	b, err := json.Marshal(map[string]any{
		"database_path": "/data/cache.db",
		"grpc_addr":     ":6000",
		"log_format":    "text",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"staffdird", "-c", path, "-h", ":9090", "-s", "30", "-l", "/var/log/staffdir.log"}
	cfg := LoadConfig()

	assert.Equal(t, "/data/cache.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
	assert.Equal(t, ":6000", cfg.GRPCAddr)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/var/log/staffdir.log", cfg.LogFile)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-g", "127.0.0.1:7000", "-d", "ignored.db", "-h", ":81"}
	cfg := &Config{}

	require.NotPanics(t, func() { parseFlags(cfg) })
	assert.Empty(t, cmp.Diff(&Config{GRPCAddr: "127.0.0.1:7000", HTTPAddr: ":81"}, cfg))
}
