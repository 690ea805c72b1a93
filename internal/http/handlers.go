package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/ports"
	"github.com/panai/console/internal/service"
)

// ConsoleService is the organization page backend used by the UI.
type ConsoleService interface {
	Dashboard(ctx context.Context, api ports.ConsoleAPI, orgName string) service.DashboardSummary
	Conversations(ctx context.Context, api ports.ConsoleAPI, orgName, tab string) service.ConversationsView
	Settings(ctx context.Context, api ports.ConsoleAPI, orgName string) service.SettingsView
	Members(ctx context.Context, api ports.ConsoleAPI, orgName string) []domainauth.Membership
	SaveSettings(ctx context.Context, api ports.ConsoleAPI, orgName string, update model.OrganizationSettingsUpdate) service.Outcome
	AddMember(ctx context.Context, api ports.ConsoleAPI, orgName string, member model.NewMember) service.Outcome
}

// LeadService captures sales form submissions.
type LeadService interface {
	Submit(ctx context.Context, req model.CreateSalesLeadRequest) (*model.SalesLead, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ ConsoleService = (*service.ConsoleService)(nil)
	_ LeadService    = (*service.SalesLeadService)(nil)
)

// SessionPolicy is shown to administrators on the settings page.
type SessionPolicy struct {
	Lifetime          time.Duration
	RefreshInterval   time.Duration
	LoadingStaleAfter time.Duration
}

// Handlers serves browser-facing routes.
type Handlers struct {
	T             *TemplateRenderer
	Console       ConsoleService
	Leads         LeadService
	SessionPolicy SessionPolicy
	IsDev         bool
	Logger        *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *Handlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// render writes a page; template failures become a plain 500. A navigation
// recorded while serving the request (an API call rejected the token) wins
// over the page.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if target := pendingNavigation(r); target != "" {
		h.logger().InfoContext(r.Context(), "api rejected session token, leaving page", "path", r.URL.Path, "target", target)
		redirect(w, r, target)
		return
	}
	if h.T == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	if err := h.T.Render(w, r, status, data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// sessionAPI returns the request session and its API client. Guarded routes
// always have a session; the bool is false only when routing is misconfigured.
//
//nolint:ireturn // the session decides the concrete client
func sessionAPI(r *http.Request) (*service.Session, ports.ConsoleAPI, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok || sess.API() == nil {
		return nil, nil, false
	}
	return sess, sess.API(), true
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}
