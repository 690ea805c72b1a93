package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: remote PanAI API client configuration
//   - session.go: browser session and cookie configuration
//   - database.go: Redis and lead store configuration
//   - http.go: HTTP server and rate limit configuration
//   - observability.go: metrics and notifications
type AppConfig struct {
	// IsDev controls development mode behavior (hot reloading, caching, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Remote API configuration
	API APIConfig `envPrefix:"PANAI_API_"`

	// Browser session configuration
	Session SessionConfig `envPrefix:"SESSION_"`

	// Storage configuration
	Redis RedisConfig `envPrefix:"REDIS_"`
	Leads LeadsConfig `envPrefix:"LEADS_DB_"`

	// HTTP server configuration
	HTTP      HTTPConfig
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Console page behavior
	UI UIConfig `envPrefix:"UI_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Session.Sanitize()
	c.Leads.Sanitize()
	c.HTTP.Sanitize()
	c.RateLimit.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
