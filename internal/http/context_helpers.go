package httpx

import (
	"context"

	"github.com/panai/console/internal/service"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// navigatorKey carries the per-request navigator.
type navigatorKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *service.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the console session opened for the request.
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*service.Session)
	return s, ok && s != nil
}

func setNavigatorInContext(ctx context.Context, nav *requestNavigator) context.Context {
	return context.WithValue(ctx, navigatorKey{}, nav)
}

func navigatorFromContext(ctx context.Context) *requestNavigator {
	nav, _ := ctx.Value(navigatorKey{}).(*requestNavigator)
	return nav
}
