package ports

// Package ports defines interfaces (hexagonal ports) for session and console behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/panai/console/internal/domain/auth"
)

// SessionStore persists and retrieves browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenEventKind describes a change to a stored token.
type TokenEventKind string

// TokenRemoved fires when a session's token is cleared, deleted or expires.
const TokenRemoved TokenEventKind = "token_removed"

// TokenEvent is delivered by TokenStore.Watch.
type TokenEvent struct {
	SessionID string
	Kind      TokenEventKind
}

// TokenStore holds the API token of each browser session under the authToken key.
type TokenStore interface {
	// Get returns the token and whether one is present. An empty session id is absence.
	Get(ctx context.Context, sessionID string) (string, bool, error)
	Set(ctx context.Context, sessionID, token string) error
	// Clear removes the token and notifies watchers of the session.
	Clear(ctx context.Context, sessionID string) error
	// Watch delivers removal events until ctx is done; the channel is then closed.
	Watch(ctx context.Context, sessionID string) (<-chan TokenEvent, error)
}

// Navigator receives navigation requests produced while handling a request.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// TokenSource is the read path the API client uses for the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
	// Revoke clears the token after the API rejected it.
	Revoke(ctx context.Context)
}
