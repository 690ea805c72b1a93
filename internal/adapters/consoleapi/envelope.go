package consoleapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath-community/go-jmespath"
)

// EnvelopeConfig holds the JMESPath expressions that select payloads out of
// response envelopes.
type EnvelopeConfig struct {
	Settings      string
	Members       string
	Conversations string
}

// DefaultEnvelopes matches the API as deployed. Settings arrive under either
// "settings" or "pharmacy" depending on the endpoint version.
func DefaultEnvelopes() EnvelopeConfig {
	return EnvelopeConfig{
		Settings:      "settings || pharmacy",
		Members:       "members",
		Conversations: "message",
	}
}

type envelopes struct {
	settings      string
	members       string
	conversations string
}

func compileEnvelopes(cfg EnvelopeConfig) (*envelopes, error) {
	def := DefaultEnvelopes()
	env := &envelopes{
		settings:      orDefault(cfg.Settings, def.Settings),
		members:       orDefault(cfg.Members, def.Members),
		conversations: orDefault(cfg.Conversations, def.Conversations),
	}
	for name, expr := range map[string]string{
		"settings":      env.settings,
		"members":       env.members,
		"conversations": env.conversations,
	} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("compile %s envelope %q: %w", name, expr, err)
		}
	}
	return env, nil
}

// unwrap applies expr to a decoded envelope and decodes the match into out.
// A missing match leaves out untouched.
func unwrap(envelope any, expr string, out any) error {
	selected, err := jmespath.Search(expr, envelope)
	if err != nil {
		return fmt.Errorf("search %q: %w", expr, err)
	}
	if selected == nil {
		return nil
	}
	raw, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("re-encode %q: %w", expr, err)
	}
	return json.Unmarshal(raw, out)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
