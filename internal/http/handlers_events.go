package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/ports"
)

const defaultHeartbeatInterval = 15 * time.Second

// SessionEvents streams "navigate" server-sent events to an open tab. When the
// session's token is removed elsewhere (another tab, expiry, an operator) the
// session is logged out and the tab is sent to its organization's login page.
func (h *Handlers) SessionEvents(heartbeat time.Duration) http.HandlerFunc {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	requirement := domainauth.NewRequirement()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, ok := SessionFromContext(ctx)
		if !ok {
			http.Error(w, "session required", http.StatusUnauthorized)
			return
		}
		org := r.PathValue("org")
		log := h.logger().With("session_id", sess.ID(), "org", org)

		events, err := sess.Watch(ctx)
		if err != nil {
			log.ErrorContext(ctx, "failed to watch session token", "error", err)
			http.Error(w, "Streaming unavailable", http.StatusServiceUnavailable)
			return
		}

		rc := http.NewResponseController(w)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			log.ErrorContext(ctx, "response writer does not support flushing", "error", err)
			return
		}

		var gate domainauth.Gate
		evaluate := func() bool {
			target, navigate := gate.Observe(domainauth.Evaluate(sess.GuardState(), requirement, org))
			if !navigate {
				return true
			}
			if err := writeNavigate(w, target); err != nil {
				return false
			}
			return rc.Flush() == nil
		}
		if !evaluate() {
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, open := <-events:
				if !open {
					return
				}
				if ev.Kind != ports.TokenRemoved {
					continue
				}
				// Each tab logs its own session object out once; later
				// removals find it unauthenticated and only re-evaluate.
				if sess.IsAuthenticated() {
					log.InfoContext(ctx, "token removed elsewhere, logging out")
					if err := sess.Logout(ctx); err != nil {
						log.WarnContext(ctx, "logout after token removal incomplete", "error", err)
					}
				}
				if !evaluate() {
					return
				}
			case <-ticker.C:
				if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
					log.DebugContext(ctx, "client disconnected during heartbeat", "error", err)
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}

type navigateEvent struct {
	Path string `json:"path"`
}

func writeNavigate(w io.Writer, path string) error {
	payload, err := json.Marshal(navigateEvent{Path: path})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: navigate\ndata: %s\n\n", payload)
	return err
}
