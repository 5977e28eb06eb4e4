// Package twin implements an Engage-compatible stand-in server. The
// browser's marketing client is pointed at it during development and
// integration tests; admin endpoints expose everything it captured.
package twin

import (
	"time"
)

// Config holds the twin's HTTP and behavior configuration.
type Config struct {
	// Addr is the address to listen on (e.g., ":8380")
	Addr string `env:"TWIN_ADDR" envDefault:":8380"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `env:"TWIN_READ_TIMEOUT" envDefault:"10s"`

	// WriteTimeout is the maximum duration before timing out response writes
	WriteTimeout time.Duration `env:"TWIN_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `env:"TWIN_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `env:"TWIN_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// ScenarioPath points at a YAML scenario file; empty uses defaults
	ScenarioPath string `env:"TWIN_SCENARIO" envDefault:""`

	// Rate limiting configuration
	RateLimit RateLimitConfig `envPrefix:"TWIN_RATE_LIMIT_"`

	// Idempotency-key deduplication configuration
	Dedup DedupConfig `envPrefix:"TWIN_DEDUP_"`
}

// RateLimitConfig holds per-API-key rate limiting configuration.
type RateLimitConfig struct {
	// Enabled indicates whether rate limiting is enabled
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// PerKeyRPS is the number of requests allowed per second per key
	PerKeyRPS float64 `env:"PER_KEY_RPS" envDefault:"50"`

	// PerKeyBurst is the maximum burst size per key
	PerKeyBurst int `env:"PER_KEY_BURST" envDefault:"100"`
}

// DedupConfig holds the sliding-window deduplication configuration.
type DedupConfig struct {
	// Window is how long an idempotency key stays visible
	Window time.Duration `env:"WINDOW" envDefault:"10m"`

	// Capacity is the expected number of events per window
	Capacity uint `env:"CAPACITY" envDefault:"100000"`

	// FPRate is the acceptable false positive rate
	FPRate float64 `env:"FP_RATE" envDefault:"0.0001"`
}
