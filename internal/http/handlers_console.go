package httpx

import (
	"net/http"
	"net/url"

	domainauth "github.com/panai/console/internal/domain/auth"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/service"
)

// Dashboard renders the organization overview.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	org := r.PathValue("org")
	snap := sess.Snapshot()
	summary := h.Console.Dashboard(r.Context(), api, org)

	data := NewTemplateData(r, PageMeta{Title: "Dashboard", CurrentPage: PageDashboard}).
		With("Summary", summary).
		With("Organization", snap.Organization).
		With("Membership", snap.Membership).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// Conversations renders the active conversations or fulfillments tab.
func (h *Handlers) Conversations(w http.ResponseWriter, r *http.Request) {
	_, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	org := r.PathValue("org")
	view := h.Console.Conversations(r.Context(), api, org, r.URL.Query().Get(fieldTab))

	builder := NewTemplateData(r, PageMeta{Title: "Conversations", CurrentPage: PageConversations}).
		With("View", view).
		With("Tabs", conversationTabs(org, view.Tab)).
		WithError(view.Error)
	if view.Sample {
		builder.With("SampleNotice", service.MsgSampleDataDisplayed)
	}
	h.render(w, r, http.StatusOK, builder.Build())
}

type tabLink struct {
	Label  string
	Path   string
	Active bool
}

func conversationTabs(org, active string) []tabLink {
	base := "/" + url.PathEscape(org) + "/conversations?" + fieldTab + "="
	return []tabLink{
		{Label: "Active Conversations", Path: base + service.TabConversations, Active: active == service.TabConversations},
		{Label: "Fulfillments", Path: base + service.TabFulfillments, Active: active == service.TabFulfillments},
	}
}

// Settings renders the organization profile form.
func (h *Handlers) Settings(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, nil, service.Outcome{})
}

// SaveSettings posts the organization profile and re-renders the form.
func (h *Handlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	_, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderSettings(w, r, nil, service.Outcome{Error: "Invalid form submission."})
		return
	}
	update := settingsFromForm(r)
	outcome := h.Console.SaveSettings(r.Context(), api, r.PathValue("org"), update)
	if outcome.OK() {
		h.renderSettings(w, r, nil, outcome)
		return
	}
	h.renderSettings(w, r, &update, outcome)
}

// renderSettings loads the current profile; submitted values win when a save failed.
func (h *Handlers) renderSettings(w http.ResponseWriter, r *http.Request, submitted *model.OrganizationSettingsUpdate, outcome service.Outcome) {
	sess, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	view := h.Console.Settings(r.Context(), api, r.PathValue("org"))

	form := model.OrganizationSettingsUpdate{}
	if org := view.Organization; org != nil {
		form = model.OrganizationSettingsUpdate{
			PhoneNumber:   org.PhoneNumber,
			Email:         org.Email,
			Website:       org.Website,
			Description:   org.Description,
			StreetAddress: org.StreetAddress,
			City:          org.City,
			State:         org.State,
			PostalCode:    org.PostalCode,
			Country:       org.Country,
		}
	}
	if submitted != nil {
		form = *submitted
	}

	errMsg := outcome.Error
	if errMsg == "" {
		errMsg = view.Error
	}
	builder := NewTemplateData(r, PageMeta{Title: "Organization Settings", CurrentPage: PageSettings}).
		With("Organization", view.Organization).
		With("Members", view.Members).
		With("Form", form).
		WithFieldErrors(outcome.Fields).
		WithError(errMsg).
		WithSuccess(outcome.Success)
	if canEdit(sess.Snapshot().Role()) {
		builder.With("CanEdit", true).With("SessionPolicy", h.SessionPolicy)
	}
	announce(w, r, outcome)
	h.render(w, r, http.StatusOK, builder.Build())
}

func settingsFromForm(r *http.Request) model.OrganizationSettingsUpdate {
	return model.OrganizationSettingsUpdate{
		PhoneNumber:   r.PostFormValue("phoneNumber"),
		Email:         r.PostFormValue("email"),
		Website:       r.PostFormValue("website"),
		Description:   r.PostFormValue("description"),
		StreetAddress: r.PostFormValue("streetAddress"),
		City:          r.PostFormValue("city"),
		State:         r.PostFormValue("state"),
		PostalCode:    r.PostFormValue("postalCode"),
		Country:       r.PostFormValue("country"),
	}
}

// Members renders the member list. Admins also get the invite form.
func (h *Handlers) Members(w http.ResponseWriter, r *http.Request) {
	h.renderMembers(w, r, model.NewMember{}, service.Outcome{})
}

// AddMember invites a member and re-renders the list.
func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	_, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	member := model.NewMember{
		Email: r.PostFormValue("email"),
		Role:  r.PostFormValue("role"),
	}
	outcome := h.Console.AddMember(r.Context(), api, r.PathValue("org"), member)
	if outcome.Success != "" {
		member = model.NewMember{}
	}
	h.renderMembers(w, r, member, outcome)
}

func (h *Handlers) renderMembers(w http.ResponseWriter, r *http.Request, form model.NewMember, outcome service.Outcome) {
	sess, api, ok := sessionAPI(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	members := h.Console.Members(r.Context(), api, r.PathValue("org"))
	if form.Role == "" {
		form.Role = "member"
	}
	data := NewTemplateData(r, PageMeta{Title: "Members", CurrentPage: PageMembers}).
		With("Members", members).
		With("Form", form).
		With("Roles", []string{string(domainauth.RoleMember), string(domainauth.RoleAdmin)}).
		With("CanEdit", canEdit(sess.Snapshot().Role())).
		WithFieldErrors(outcome.Fields).
		WithError(outcome.Error).
		WithSuccess(outcome.Success).
		Build()
	announce(w, r, outcome)
	h.render(w, r, http.StatusOK, data)
}

// announce raises a toast event for htmx clients after a successful save.
func announce(w http.ResponseWriter, r *http.Request, outcome service.Outcome) {
	if outcome.Success != "" && IsHTMX(r) {
		SetHXTrigger(w, "showToast", map[string]string{"message": outcome.Success, "type": "success"})
	}
}
