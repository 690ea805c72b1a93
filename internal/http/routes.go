package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	console "github.com/panai/console"
	domainauth "github.com/panai/console/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions SessionOpener
	Console  ConsoleService
	Leads    LeadService

	// HealthChecks are probed by /healthz.
	HealthChecks  []HealthCheck
	SessionCookie SessionCookieConfig
	SessionPolicy SessionPolicy
	CSRF          CSRFConfig
	// RateLimiter throttles public form posts (optional).
	RateLimiter *RateLimiter
	// Compression enables gzip when set.
	Compression *CompressionConfig
	// HeartbeatInterval paces comments on the session event stream.
	HeartbeatInterval time.Duration

	// TemplateFS and StaticFS override the embedded or on-disk assets (optional).
	TemplateFS fs.FS
	StaticFS   fs.FS
	Now        func() time.Time

	IsDev  bool         // Development mode serves assets from disk
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP handler with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if services.Sessions == nil {
		return nil, errors.New("sessions are required")
	}
	if services.SessionCookie.Name == "" {
		services.SessionCookie.Name = DefaultSessionCookieName
	}

	templateFS, staticFS, err := resolveAssets(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Now: services.Now, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	h := &Handlers{
		T:             tr,
		Console:       services.Console,
		Leads:         services.Leads,
		SessionPolicy: services.SessionPolicy,
		IsDev:         services.IsDev,
		Logger:        logger,
	}
	loader := &sessionLoader{sessions: services.Sessions, cookie: services.SessionCookie, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.HealthChecks))
	mux.Handle("HEAD /healthz", healthHandler(services.HealthChecks))

	registerPublicRoutes(mux, h, services.RateLimiter)
	registerAuthRoutes(mux, h, loader)
	registerConsoleRoutes(mux, h, loader, services.HeartbeatInterval)

	var handler http.Handler = &rootHandler{
		mux:    mux,
		static: staticWithCacheHeaders(services.IsDev, http.StripPrefix(staticPrefix, http.FileServer(http.FS(staticFS)))),
		h:      h,
	}
	handler = CSRFProtection(services.CSRF)(handler)
	handler = SecurityHeaders()(handler)
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	return handler, nil
}

func registerPublicRoutes(mux *http.ServeMux, h *Handlers, limiter *RateLimiter) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /sales", h.SalesForm)

	var submit http.Handler = http.HandlerFunc(h.SubmitSales)
	if limiter != nil {
		submit = limiter.Middleware(submit)
	}
	mux.Handle("POST /sales", submit)
}

func registerAuthRoutes(mux *http.ServeMux, h *Handlers, loader *sessionLoader) {
	mux.Handle("GET /login", loader.wrap(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", loader.wrap(http.HandlerFunc(h.Login)))
	mux.Handle("GET /unauthorized", loader.wrap(http.HandlerFunc(h.Unauthorized)))

	mux.Handle("GET /{org}/login", loader.wrap(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /{org}/login", loader.wrap(http.HandlerFunc(h.Login)))
	mux.Handle("POST /{org}/logout", loader.wrap(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /{org}/unauthorized", loader.wrap(http.HandlerFunc(h.Unauthorized)))
}

func registerConsoleRoutes(mux *http.ServeMux, h *Handlers, loader *sessionLoader, heartbeat time.Duration) {
	authenticated := domainauth.NewRequirement()
	admins := domainauth.NewRequirement(domainauth.WithRoles(domainauth.RoleAdmin))

	page := func(req domainauth.Requirement, fn http.HandlerFunc) http.Handler {
		return loader.wrap(h.guard(req, fn))
	}

	mux.HandleFunc("GET /{org}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, domainauth.DashboardPath(r.PathValue("org")), http.StatusSeeOther)
	})
	mux.Handle("GET /{org}/dashboard", page(authenticated, h.Dashboard))
	mux.Handle("GET /{org}/conversations", page(authenticated, h.Conversations))
	mux.Handle("GET /{org}/settings", page(authenticated, h.Settings))
	mux.Handle("POST /{org}/settings", page(admins, h.SaveSettings))
	mux.Handle("GET /{org}/members", page(authenticated, h.Members))
	mux.Handle("POST /{org}/members", page(admins, h.AddMember))
	mux.Handle("GET /{org}/session/events", loader.wrap(h.SessionEvents(heartbeat)))
}

// resolveAssets picks template and static filesystems: explicit overrides
// first, then the working tree in dev mode, then the embedded copies.
func resolveAssets(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
	}
	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(console.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(console.StaticFS, StaticPathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
// Dev mode disables caching so edits show up on reload.
func staticWithCacheHeaders(isDev bool, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}

const staticPrefix = "/static/"

// rootHandler serves static assets ahead of the mux, whose /{org}/... patterns
// would otherwise overlap a /static/ prefix, and renders the 404 page for
// unmatched page requests.
type rootHandler struct {
	mux    *http.ServeMux
	static http.Handler
	h      *Handlers
}

func (rh *rootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, staticPrefix) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		rh.static.ServeHTTP(w, r)
		return
	}
	if _, pattern := rh.mux.Handler(r); pattern == "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		rh.h.NotFound(w, r)
		return
	}
	rh.mux.ServeHTTP(w, r)
}
