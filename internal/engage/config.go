package engage

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBatchSize     = 20
	DefaultFlushInterval = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultTimeout       = 10 * time.Second
)

// Config holds the Engage client configuration. Credentials are not
// part of it; they arrive later through SetIdentity, after the host
// has decided whether marketing is enabled at all.
type Config struct {
	// Endpoint is the Engage API base URL (required).
	Endpoint string

	// BatchSize is the maximum number of events per batch (default: 20).
	BatchSize int

	// FlushInterval is the maximum time between flushes (default: 30s).
	FlushInterval time.Duration

	// MaxRetries is the retry budget for 5xx and network errors
	// (default: 3).
	MaxRetries int

	// Timeout is the per-request HTTP timeout (default: 10s).
	Timeout time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return errors.New("engage: Endpoint is required")
	}
	if _, err := url.Parse(c.Endpoint); err != nil {
		return errors.New("engage: Endpoint must be a valid URL")
	}
	if c.BatchSize < 0 {
		return errors.New("engage: BatchSize must be non-negative")
	}
	if c.FlushInterval < 0 {
		return errors.New("engage: FlushInterval must be non-negative")
	}
	if c.MaxRetries < 0 {
		return errors.New("engage: MaxRetries must be non-negative")
	}
	if c.Timeout < 0 {
		return errors.New("engage: Timeout must be non-negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	cfg := c
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
