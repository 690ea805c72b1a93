package config

import (
	"strings"
	"time"
)

const defaultAPIBaseURL = "http://localhost:8000"

// APIConfig configures the client used to reach the remote PanAI API.
type APIConfig struct {
	// BaseURL is prefixed to every API path (PANAI_API_BASE_URL).
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each outbound request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// Envelope expressions select the payload out of API responses (JMESPath).
	SettingsEnvelope      string `env:"SETTINGS_ENVELOPE"      envDefault:"settings || pharmacy"`
	MembersEnvelope       string `env:"MEMBERS_ENVELOPE"       envDefault:"members"`
	ConversationsEnvelope string `env:"CONVERSATIONS_ENVELOPE" envDefault:"message"`
}

// Sanitize trims the base URL and restores defaults for empty values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(c.SettingsEnvelope) == "" {
		c.SettingsEnvelope = "settings || pharmacy"
	}
	if strings.TrimSpace(c.MembersEnvelope) == "" {
		c.MembersEnvelope = "members"
	}
	if strings.TrimSpace(c.ConversationsEnvelope) == "" {
		c.ConversationsEnvelope = "message"
	}
}
