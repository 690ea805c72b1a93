package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/panai/console/internal/errors"
)

const (
	errMsgFixBelow = "Please correct the highlighted fields."
	errMsgGeneric  = "An error occurred. Please try again."
)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred (optional when only field errors are present).
	Err error
	// FieldErrors maps form fields to messages.
	FieldErrors map[string]string
	// Message overrides the banner derived from Err.
	Message string
	// Fallback replaces the generic banner for errors without a public message.
	Fallback string
	PageMeta PageMeta
	// Data is merged into the template data, e.g. to keep submitted form values.
	Data map[string]any
	// StatusCode defaults to 200 so htmx swaps the response.
	StatusCode int
}

// RenderError renders the page in opts.PageMeta with an error banner and any
// field-level messages carried by the error.
func (h *Handlers) RenderError(opts ErrorOpts) {
	fields := opts.FieldErrors
	if extra := apperrors.GetFields(opts.Err); len(extra) > 0 {
		if fields == nil {
			fields = map[string]string{}
		}
		for k, v := range extra {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}
	}

	msg := opts.Message
	if msg == "" {
		msg = bannerMessage(opts.Err, opts.Fallback)
	}
	if msg == "" && len(fields) > 0 {
		msg = errMsgFixBelow
	}

	builder := NewTemplateData(opts.R, opts.PageMeta).
		WithFieldErrors(fields).
		WithError(msg)
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	status := opts.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	h.render(opts.W, opts.R, status, builder.Build())
}

// bannerMessage turns err into text safe to show to a user.
func bannerMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = errMsgGeneric
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), apperrors.IsTimeout(err):
		return "Request timed out. Please try again."
	case errors.Is(err, context.Canceled), apperrors.IsCanceled(err):
		return "Request was canceled."
	}
	return apperrors.PublicMessage(err, fallback)
}

// renderNotFound renders the 404 page.
func (h *Handlers) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Page Not Found", CurrentPage: PageNotFound}).Build()
	h.render(w, r, http.StatusNotFound, data)
}

// renderServerError renders the generic error page.
func (h *Handlers) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	data := NewTemplateData(r, PageMeta{Title: "Something Went Wrong", CurrentPage: PageError}).
		WithError(bannerMessage(err, errMsgGeneric)).
		Build()
	h.render(w, r, http.StatusInternalServerError, data)
}
