package httpx

import (
	"net/http"
	"net/url"

	"github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/http/ui/viewmodel"
	"github.com/panai/console/internal/http/uiutil"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData starts page data with the layout for the request.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: map[string]any{
		"Layout": buildLayout(r, meta),
		"Errors": map[string]string{},
	}}
}

// WithError sets a general error banner.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Error"] = true
		b.data["ErrorMessage"] = msg
	}
	return b
}

// WithSuccess sets a success banner.
func (b *TemplateDataBuilder) WithSuccess(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["SuccessMessage"] = msg
	}
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildLayout constructs shared layout metadata from the request and its session.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		OrgName:     r.PathValue("org"),
	}
	if layout.PageTitle == "" {
		layout.PageTitle = layout.Title
	}

	sess, ok := SessionFromContext(r.Context())
	if !ok {
		return layout
	}
	snap := sess.Snapshot()
	if layout.OrgName == "" {
		layout.OrgName = snap.OrgName
	}
	layout.OrgDisplayName = layout.OrgName
	if snap.Organization != nil && snap.Organization.Name != "" {
		layout.OrgDisplayName = snap.Organization.Name
	}
	if !snap.IsAuthenticated() {
		return layout
	}

	layout.IsAuthenticated = true
	layout.User = &viewmodel.User{
		Email:    snap.User.Email,
		Name:     snap.User.DisplayName(),
		Role:     string(snap.Role()),
		Initials: uiutil.Initials(snap.User.FirstName, snap.User.LastName, snap.User.Email),
	}
	if layout.OrgName != "" {
		layout.Nav = viewmodel.OrgNav(layout.OrgName, meta.CurrentPage)
		layout.EventsPath = "/" + url.PathEscape(layout.OrgName) + "/session/events"
	}
	return layout
}

// canEdit reports whether role may change settings and add members.
func canEdit(role auth.Role) bool {
	return role.HasAnyRole(viewmodel.EditorRoles...)
}
