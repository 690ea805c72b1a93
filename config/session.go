package config

import (
	"strings"
	"time"
)

// SessionConfig controls browser sessions and the cookie that addresses them.
type SessionConfig struct {
	// CookieName is the name of the cookie carrying the opaque session id.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`

	// Lifetime is the TTL applied to the session record and its token.
	Lifetime time.Duration `env:"LIFETIME" envDefault:"24h"`

	// RefreshInterval re-runs the membership refresh when the last one is older.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`

	// LoadingStaleAfter is how long a loading flag is honored before it is ignored.
	LoadingStaleAfter time.Duration `env:"LOADING_STALE_AFTER" envDefault:"2m"`

	// KeyPrefix namespaces token keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"panai:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "session_id"
	}
	c.CookieDomain = strings.TrimSpace(c.CookieDomain)
	if c.Lifetime <= 0 {
		c.Lifetime = 24 * time.Hour
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 5 * time.Minute
	}
	if c.LoadingStaleAfter <= 0 {
		c.LoadingStaleAfter = 2 * time.Minute
	}
}
