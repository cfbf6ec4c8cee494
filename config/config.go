package config

import (
	"errors"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// PoolMode selects the background execution model.
type PoolMode string

const (
	// PoolFixed runs a fixed-size worker pool fed by a bounded queue.
	PoolFixed PoolMode = "fixed"
	// PoolCached spawns one goroutine per accepted request, mirroring a
	// cached thread pool: no queue, no worker cap.
	PoolCached PoolMode = "cached"
)

// Config is the top-level configuration struct.  All fields have safe defaults
// so callers can start with Config{} and override only what they need.
type Config struct {
	// Background pool controls.
	PoolMode    PoolMode `koanf:"pool_mode"`    // "fixed" or "cached"; default fixed
	WorkerCount int      `koanf:"worker_count"` // default: runtime.NumCPU()
	QueueSize   int      `koanf:"queue_size"`   // max queued requests before Submit rejects; default 256

	// Fetching.
	FetchTimeout  time.Duration `koanf:"fetch_timeout"`   // per-connection timeout; default 30s
	UserAgent     string        `koanf:"user_agent"`      // HTTP User-Agent header
	MaxImageBytes int64         `koanf:"max_image_bytes"` // 0 = no limit
	ChunkSize     int           `koanf:"chunk_size"`      // streaming chunk size in bytes; default 32 KiB

	// Logging.
	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error"
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		PoolMode:     PoolFixed,
		WorkerCount:  0, // resolved at runtime to NumCPU
		QueueSize:    256,
		FetchTimeout: 30 * time.Second,
		UserAgent:    "image-loader/1.0",
		ChunkSize:    32 * 1024,
		LogLevel:     "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	switch c.PoolMode {
	case PoolFixed, PoolCached, "":
	default:
		return errors.New("config: PoolMode must be \"fixed\" or \"cached\"")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	if c.QueueSize < 0 {
		return errors.New("config: QueueSize must not be negative")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	return nil
}

// LoadFile reads a TOML config file and overlays it on Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return cfg, err
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
