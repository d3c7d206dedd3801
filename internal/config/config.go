// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Dataset  DatasetConfig
	Server   ServerConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Export   ExportConfig
	History  HistoryConfig
	Logging  LoggingConfig
}

// DatasetConfig holds settings for the backing dataset file.
type DatasetConfig struct {
	// Path is the semicolon separated dataset file (default: ./data/dataset.csv)
	// Supports both DATASET_PATH and DATA_FILE env vars
	Path string `env:"DATASET_PATH" envAlt:"DATA_FILE" default:"./data/dataset.csv"`

	// Watch reloads the table when another program changes the file (default: true)
	Watch bool `env:"DATASET_WATCH" default:"true"`

	// WatchDebounce coalesces bursts of file events (default: 250ms)
	WatchDebounce time.Duration `env:"DATASET_WATCH_DEBOUNCE" default:"250ms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1, local use only)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects mutating routes with an X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// ExportConfig limits concurrent workbook exports.
type ExportConfig struct {
	// MaxConcurrent is the number of workbooks built at once (default: 2)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"2"`

	// MaxWait is how long an export waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"10s"`
}

// HistoryConfig holds settings for the in-memory mutation history.
type HistoryConfig struct {
	// Size is the number of entries retained (default: 200)
	Size int `env:"HISTORY_SIZE" default:"200"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text, json or tint (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
