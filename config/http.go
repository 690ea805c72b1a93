package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CompressionEnabled enables gzip compression for text-based assets.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
}

// RateLimitConfig throttles the public form endpoints per client IP.
type RateLimitConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 `env:"RPS" envDefault:"1"`
	// Burst is the bucket size per client.
	Burst int `env:"BURST" envDefault:"5"`
	// IdleTTL drops limiters for clients that have been quiet this long.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to rate limit values.
func (c *RateLimitConfig) Sanitize() {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 1
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 10 * time.Minute
	}
}

// UIConfig holds page behavior toggles.
type UIConfig struct {
	// SampleDataFallback shows placeholder conversations when the API fails.
	SampleDataFallback bool `env:"SAMPLE_DATA_FALLBACK" envDefault:"true"`
}
