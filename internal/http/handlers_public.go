package httpx

import (
	"net/http"

	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/service"
)

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "PanAI", PageTitle: "AI call automation for pharmacies", CurrentPage: PageHome}).Build()
	h.render(w, r, http.StatusOK, data)
}

// SalesForm renders an empty sales form.
func (h *Handlers) SalesForm(w http.ResponseWriter, r *http.Request) {
	h.renderSales(w, r, salesPage{})
}

// SubmitSales stores a sales form submission. JSON bodies get a JSON answer;
// form posts re-render the page with either the success panel or the errors.
func (h *Handlers) SubmitSales(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		h.submitSalesJSON(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, Message: "Invalid form submission.", PageMeta: salesMeta, Data: salesData(salesPage{})})
		return
	}

	req := salesRequestFromForm(r)
	if _, err := h.Leads.Submit(r.Context(), req); err != nil {
		h.RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Message:  service.SubmitMessage(err),
			PageMeta: salesMeta,
			Data:     salesData(salesPage{Form: req}),
		})
		return
	}
	h.renderSales(w, r, salesPage{Submitted: true})
}

func (h *Handlers) submitSalesJSON(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSalesLeadRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Leads.Submit(r.Context(), req)
	if err != nil {
		writeAppError(w, err, service.MsgLeadFailed)
		return
	}
	WriteJSON(w, http.StatusCreated, lead)
}

type selectOption struct {
	Value string
	Label string
}

//nolint:gochecknoglobals // static form options
var (
	salesRoleOptions = []selectOption{
		{"owner", "Owner"},
		{"pharmacist", "Pharmacist"},
		{"tech", "Pharmacy Technician"},
		{"admin", "Administrator"},
		{"manager", "Manager"},
		{"other", "Other"},
	}
	pharmacySizeOptions = []selectOption{
		{"independent", "Independent"},
		{"small-chain", "Small chain (2-10)"},
		{"regional-chain", "Regional chain (11-50)"},
		{"large-chain", "Large chain (50+)"},
	}
)

//nolint:gochecknoglobals // static page metadata
var salesMeta = PageMeta{Title: "Talk to Sales", CurrentPage: PageSales}

type salesPage struct {
	Form      model.CreateSalesLeadRequest
	Submitted bool
}

func salesData(p salesPage) map[string]any {
	return map[string]any{
		"Form":        p.Form,
		"Submitted":   p.Submitted,
		"RoleOptions": salesRoleOptions,
		"SizeOptions": pharmacySizeOptions,
	}
}

func (h *Handlers) renderSales(w http.ResponseWriter, r *http.Request, p salesPage) {
	builder := NewTemplateData(r, salesMeta)
	for k, v := range salesData(p) {
		builder.With(k, v)
	}
	h.render(w, r, http.StatusOK, builder.Build())
}

func salesRequestFromForm(r *http.Request) model.CreateSalesLeadRequest {
	return model.CreateSalesLeadRequest{
		FirstName:       r.PostFormValue("firstName"),
		LastName:        r.PostFormValue("lastName"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Role:            r.PostFormValue("role"),
		DecisionMaker:   r.PostFormValue("decisionMaker"),
		PharmacyName:    r.PostFormValue("pharmacyName"),
		PharmacyAddress: r.PostFormValue("pharmacyAddress"),
		PharmacyCity:    r.PostFormValue("pharmacyCity"),
		PharmacyState:   r.PostFormValue("pharmacyState"),
		PharmacyZip:     r.PostFormValue("pharmacyZip"),
		PharmacySize:    r.PostFormValue("pharmacySize"),
		Notes:           r.PostFormValue("notes"),
	}
}
