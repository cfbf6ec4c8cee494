package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-loader/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.PoolFixed, cfg.PoolMode)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 32*1024, cfg.ChunkSize)
	assert.NoError(t, config.Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults are valid", func(*config.Config) {}, false},
		{"cached pool is valid", func(c *config.Config) { c.PoolMode = config.PoolCached }, false},
		{"empty pool mode is valid", func(c *config.Config) { c.PoolMode = "" }, false},
		{"unknown pool mode", func(c *config.Config) { c.PoolMode = "forked" }, true},
		{"zero chunk size", func(c *config.Config) { c.ChunkSize = 0 }, true},
		{"negative queue size", func(c *config.Config) { c.QueueSize = -1 }, true},
		{"negative max bytes", func(c *config.Config) { c.MaxImageBytes = -1 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := config.Validate(cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loader.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
pool_mode = "cached"
worker_count = 8
queue_size = 32
user_agent = "my-app/2.0"
max_image_bytes = 10485760
log_level = "debug"
`), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, config.PoolCached, cfg.PoolMode)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 32, cfg.QueueSize)
	assert.Equal(t, "my-app/2.0", cfg.UserAgent)
	assert.Equal(t, int64(10485760), cfg.MaxImageBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, 32*1024, cfg.ChunkSize)
}

func TestLoadFile_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loader.toml")
	require.NoError(t, os.WriteFile(path, []byte(`pool_mode = "forked"`), 0o644))

	_, err := config.LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
