// Package config provides centralized configuration management for the scorecard service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OCR      OCRConfig
	Scan     ScanConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout must cover the OCR round trip of a scan request (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// DatabaseConfig holds record store settings.
type DatabaseConfig struct {
	// Driver selects the store implementation: sqlite or postgres (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// URL is a PostgreSQL connection string or a SQLite file path.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" default:"golf_scorecards.db"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// OCRConfig holds settings for the scorecard transcription engine.
type OCRConfig struct {
	// Engine selects the recognizer: ollama or tesseract (default: ollama)
	Engine string `env:"OCR_ENGINE" default:"ollama"`

	// Endpoint is the chat API URL of the vision model server
	Endpoint string `env:"OCR_ENDPOINT" default:"http://localhost:11434/api/chat"`

	// Model is the vision model name (default: llama3.2-vision)
	Model string `env:"OCR_MODEL" default:"llama3.2-vision"`

	// Timeout bounds a single transcription request (default: 30s)
	Timeout time.Duration `env:"OCR_TIMEOUT" default:"30s"`

	// MaxImageSize is the maximum accepted image size in bytes (default: 20MB)
	MaxImageSize int64 `env:"OCR_MAX_IMAGE_SIZE" default:"20971520"`

	// Languages is a comma-separated list of tesseract language codes (default: eng)
	Languages []string `env:"OCR_LANGUAGES" default:"eng"`
}

// ScanConfig holds scan processing and parsing policy settings.
type ScanConfig struct {
	// MaxConcurrent is the maximum number of scans transcribed in parallel (default: 2)
	MaxConcurrent int `env:"SCAN_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a scan slot (default: 30s)
	MaxWaitTime time.Duration `env:"SCAN_MAX_WAIT_TIME" default:"30s"`

	// Retention is how long finished scan results stay retrievable (default: 30m)
	Retention time.Duration `env:"SCAN_RETENTION" default:"30m"`

	// TotalPolicy is recompute or declared (default: recompute)
	TotalPolicy string `env:"SCAN_TOTAL_POLICY" default:"recompute"`

	// StrictLayout verifies the hole-number and par rows before parsing golfers (default: true)
	StrictLayout bool `env:"SCAN_STRICT_LAYOUT" default:"true"`

	// RequireComplete rejects records containing a missing score or total (default: false)
	RequireComplete bool `env:"SCAN_REQUIRE_COMPLETE" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 60)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key validation on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
