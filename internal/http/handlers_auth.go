package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/panai/console/internal/adapters/consoleapi"
	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/service"
)

const (
	msgLoginRequired  = "Email and password are required."
	msgOrgRequired    = "Organization is required."
	msgLoginTransport = "Unable to reach the server. Please try again."
)

type loginForm struct {
	Email   string
	OrgName string
	// OrgFixed hides the organization field on organization-scoped pages.
	OrgFixed bool
}

// LoginPage renders the sign-in form. Authenticated sessions on an
// organization route go straight to the dashboard.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	org := r.PathValue("org")
	if sess, ok := SessionFromContext(r.Context()); ok && org != "" && sess.IsAuthenticated() {
		redirect(w, r, domainauth.DashboardPath(org))
		return
	}
	h.renderLogin(w, r, loginForm{OrgName: org, OrgFixed: org != ""}, "", nil)
}

// Login handles the sign-in form for both the generic and organization routes.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		h.renderServerError(w, r, errors.New("session missing on login route"))
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue(fieldEmail)),
		OrgName:  r.PathValue("org"),
		OrgFixed: r.PathValue("org") != "",
	}
	if !form.OrgFixed {
		form.OrgName = strings.TrimSpace(r.PostFormValue(fieldOrgName))
	}
	password := r.PostFormValue(fieldPassword)

	fields := map[string]string{}
	if form.OrgName == "" {
		fields[fieldOrgName] = msgOrgRequired
	}
	if form.Email == "" || password == "" {
		fields[fieldEmail] = msgLoginRequired
	}
	if len(fields) > 0 {
		h.renderLogin(w, r, form, errMsgFixBelow, fields)
		return
	}

	if err := sess.Login(r.Context(), form.Email, password, form.OrgName); err != nil {
		h.renderLogin(w, r, form, loginErrorMessage(err), nil)
		return
	}
	followNavigation(w, r, domainauth.DashboardPath(form.OrgName))
}

// Logout ends the session and sends the browser to the organization login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	org := r.PathValue("org")
	if sess, ok := SessionFromContext(r.Context()); ok {
		if err := sess.Logout(r.Context()); err != nil {
			h.logger().WarnContext(r.Context(), "logout incomplete", "session_id", sess.ID(), "error", err)
		}
	}
	followNavigation(w, r, domainauth.LoginPath(org))
}

// Unauthorized tells an authenticated user their role cannot open a page.
func (h *Handlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Unauthorized", CurrentPage: PageUnauthorized}).
		With("DashboardPath", domainauth.DashboardPath(r.PathValue("org"))).
		Build()
	h.render(w, r, http.StatusForbidden, data)
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, msg string, fields map[string]string) {
	title := "Sign In"
	if form.OrgFixed {
		title = "Sign In to " + form.OrgName
	}
	status := http.StatusOK
	if msg != "" {
		status = http.StatusUnprocessableEntity
		if IsHTMX(r) {
			status = http.StatusOK
		}
	}
	data := NewTemplateData(r, PageMeta{Title: title, CurrentPage: PageLogin}).
		With("Form", form).
		WithFieldErrors(fields).
		WithError(msg).
		Build()
	h.render(w, r, status, data)
}

// loginErrorMessage prefers what the API said about the credentials.
func loginErrorMessage(err error) string {
	var apiErr *consoleapi.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, service.ErrNoToken):
		return service.ErrNoToken.Error()
	case errors.Is(err, consoleapi.ErrInvalidJSON):
		return consoleapi.ErrInvalidJSON.Error()
	default:
		return bannerMessage(err, msgLoginTransport)
	}
}
