package httpx

import (
	"net/http"

	domainauth "github.com/panai/console/internal/domain/auth"
)

// guard renders next only when the session satisfies req. While the session
// is loading a loading page is shown instead; unmet requirements redirect.
func (h *Handlers) guard(req domainauth.Requirement, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var state domainauth.GuardState
		if sess, ok := SessionFromContext(r.Context()); ok {
			state = sess.GuardState()
		}

		decision := domainauth.Evaluate(state, req, r.PathValue("org"))
		switch decision.Action {
		case domainauth.ActionLoading:
			h.renderLoading(w, r)
		case domainauth.ActionRedirect:
			redirect(w, r, decision.Target)
		default:
			next(w, r)
		}
	})
}

func (h *Handlers) renderLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	data := NewTemplateData(r, PageMeta{Title: "Loading", CurrentPage: PageLoading}).
		With("RefreshURL", r.URL.RequestURI()).
		Build()
	h.render(w, r, http.StatusOK, data)
}
