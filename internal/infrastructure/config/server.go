package config

import "time"

// ServerConfig holds HTTP control-plane configuration (§6).
type ServerConfig struct {
	// Address the HTTP control plane listens on (host:port).
	Address string `mapstructure:"address" validate:"required"`

	// APIKey is the shared secret expected in the X-API-Key header.
	// Opaque to the engine; validated by a thin middleware.
	APIKey string `mapstructure:"api_key"`

	// ReadTimeout/WriteTimeout bound a single HTTP request.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout bounds how long graceful shutdown waits for
	// in-flight requests before forcing close.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// RateLimit/RateBurst bound ingest requests/sec for the shared token
	// bucket limiter. Zero RateLimit falls back to the adapter's default.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}
