package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/panai/console/internal/ports"
	"github.com/panai/console/internal/service"
)

// DefaultSessionCookieName is used when SessionCookieConfig.Name is empty.
const DefaultSessionCookieName = "session_id"

// SessionOpener opens the console session for a cookie value.
type SessionOpener interface {
	Open(ctx context.Context, id string, nav ports.Navigator) (*service.Session, error)
}

var _ SessionOpener = (*service.SessionManager)(nil)

// SessionCookieConfig describes the cookie carrying the session id.
type SessionCookieConfig struct {
	Name   string
	Domain string
	MaxAge time.Duration
}

// sessionLoader opens the browser session for organization routes and
// reconciles it with the organization named in the URL.
type sessionLoader struct {
	sessions SessionOpener
	cookie   SessionCookieConfig
	logger   *slog.Logger
}

// wrap must be applied per route so that r.PathValue("org") is populated.
func (l *sessionLoader) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		nav := &requestNavigator{}

		var id string
		if c, err := r.Cookie(l.cookie.Name); err == nil {
			id = c.Value
		}

		sess, err := l.sessions.Open(ctx, id, nav)
		if err != nil {
			l.logger.ErrorContext(ctx, "failed to open session", "error", err)
			http.Error(w, "Session unavailable. Please try again.", http.StatusServiceUnavailable)
			return
		}
		if err := sess.Sync(ctx, r.PathValue("org")); err != nil {
			// The page still renders from whatever state the session kept.
			l.logger.WarnContext(ctx, "failed to sync session", "session_id", sess.ID(), "error", err)
		}
		if id != sess.ID() {
			l.setCookie(w, r, sess.ID())
		}

		ctx = setNavigatorInContext(ctx, nav)
		ctx = SetSessionInContext(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (l *sessionLoader) setCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     l.cookie.Name,
		Value:    id,
		Path:     "/",
		Domain:   l.cookie.Domain,
		MaxAge:   int(l.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}
