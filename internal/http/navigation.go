package httpx

import (
	"net/http"
	"strings"
	"sync"
)

// requestNavigator collects navigations requested by session operations
// during one request. The handler turns the last one into a redirect.
type requestNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *requestNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Last returns the most recent navigation, or "".
func (n *requestNavigator) Last() string {
	if n == nil {
		return ""
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// redirect sends the browser to path. htmx requests get an Hx-Redirect so the
// whole page changes instead of the swap target.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		SetHXRedirect(w, path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// followNavigation redirects to the last navigation recorded for the request,
// or to fallback when nothing navigated. It reports whether it wrote a response.
func followNavigation(w http.ResponseWriter, r *http.Request, fallback string) bool {
	target := safeLocalPath(navigatorFromContext(r.Context()).Last())
	if target == "" {
		target = fallback
	}
	if target == "" {
		return false
	}
	redirect(w, r, target)
	return true
}

// pendingNavigation is the navigation a session operation requested during
// this request, or "" when there is none or it points at the page being shown.
func pendingNavigation(r *http.Request) string {
	target := safeLocalPath(navigatorFromContext(r.Context()).Last())
	if target == "" {
		return ""
	}
	if r.Method == http.MethodGet && target == r.URL.Path {
		return ""
	}
	return target
}

// safeLocalPath accepts only same-origin absolute paths.
func safeLocalPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return ""
	}
	return p
}
