package auth

import (
	"net/url"
	"strings"
	"sync"
)

// Requirement describes what a page needs from the session before it renders.
type Requirement struct {
	RequiresAuth  bool
	RequiredRoles []Role
	// FallbackPath overrides the login/unauthorized redirect target when set.
	FallbackPath string
}

// RequirementOption customizes a Requirement.
type RequirementOption func(*Requirement)

// NewRequirement returns a Requirement that requires authentication and accepts any role.
func NewRequirement(opts ...RequirementOption) Requirement {
	req := Requirement{RequiresAuth: true}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// WithoutAuth lets unauthenticated sessions through.
func WithoutAuth() RequirementOption {
	return func(r *Requirement) { r.RequiresAuth = false }
}

// WithRoles restricts rendering to the given roles.
func WithRoles(roles ...Role) RequirementOption {
	return func(r *Requirement) { r.RequiredRoles = append(r.RequiredRoles, roles...) }
}

// WithFallback redirects to path instead of the organization-scoped default.
func WithFallback(path string) RequirementOption {
	return func(r *Requirement) { r.FallbackPath = path }
}

// Action is what the caller should do with a page.
type Action int

const (
	// ActionRender renders the page.
	ActionRender Action = iota
	// ActionLoading shows a loading indicator without redirecting.
	ActionLoading
	// ActionRedirect renders nothing and navigates to Decision.Target.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionLoading:
		return "loading"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a Requirement.
type Decision struct {
	Action Action
	Target string
}

// GuardState is the part of a session the guard looks at.
type GuardState struct {
	Loading       bool
	Authenticated bool
	Role          Role
}

// Evaluate is a pure function of session state, requirement and organization name.
func Evaluate(state GuardState, req Requirement, orgName string) Decision {
	if state.Loading {
		return Decision{Action: ActionLoading}
	}
	if req.RequiresAuth && !state.Authenticated {
		return Decision{Action: ActionRedirect, Target: firstNonEmpty(req.FallbackPath, LoginPath(orgName))}
	}
	if state.Authenticated && len(req.RequiredRoles) > 0 && !state.Role.HasAnyRole(req.RequiredRoles...) {
		return Decision{Action: ActionRedirect, Target: firstNonEmpty(req.FallbackPath, UnauthorizedPath(orgName))}
	}
	return Decision{Action: ActionRender}
}

// Gate turns a stream of decisions into navigations for long-lived views.
// A redirect is emitted once when the requirement becomes unmet and not again
// while it stays unmet. Gate is safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	blocked bool
	target  string
}

// Observe records d and reports whether the caller should navigate now.
func (g *Gate) Observe(d Decision) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if d.Action != ActionRedirect {
		if d.Action == ActionRender {
			g.blocked = false
			g.target = ""
		}
		return "", false
	}
	if g.blocked && g.target == d.Target {
		return "", false
	}
	g.blocked = true
	g.target = d.Target
	return d.Target, true
}

// LoginPath is the organization-scoped login route, or /login without an organization.
func LoginPath(orgName string) string { return orgPath(orgName, "login", "/login") }

// UnauthorizedPath is the organization-scoped unauthorized route.
func UnauthorizedPath(orgName string) string {
	return orgPath(orgName, "unauthorized", "/unauthorized")
}

// DashboardPath is the landing page after a successful login.
func DashboardPath(orgName string) string { return orgPath(orgName, "dashboard", "/") }

func orgPath(orgName, page, fallback string) string {
	orgName = strings.TrimSpace(orgName)
	if orgName == "" {
		return fallback
	}
	return "/" + url.PathEscape(orgName) + "/" + page
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
