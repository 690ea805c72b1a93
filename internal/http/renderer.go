package httpx

import (
	"bytes"
	"errors"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	corefuncs "github.com/panai/console/internal/http/templates/core"
	"github.com/panai/console/internal/http/ui/viewmodel"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // Filesystem containing templates (required)
	// Now anchors relative times in templates (optional).
	Now    func() time.Time
	Logger *slog.Logger
}

// NewTemplateRenderer parses layout, page and partial templates from cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
		Now:                cfg.Now,
	})
	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// Render writes the page described by data with status. htmx requests get the
// content template plus a <title> element; everything else the full layout.
func (r *TemplateRenderer) Render(w http.ResponseWriter, req *http.Request, status int, data map[string]any) error {
	layout := layoutOf(data)
	if !WantsPartial(req) {
		return r.execute(w, status, "layout", data, "")
	}
	return r.execute(w, status, ContentTemplateFor(layout.CurrentPage), data,
		"<title>"+html.EscapeString(layout.Title)+"</title>")
}

func (r *TemplateRenderer) execute(w http.ResponseWriter, status int, name string, data any, prefix string) error {
	var buf bytes.Buffer
	buf.WriteString(prefix)
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}

func layoutOf(data map[string]any) viewmodel.Layout {
	switch l := data["Layout"].(type) {
	case viewmodel.Layout:
		return l
	case *viewmodel.Layout:
		if l != nil {
			return *l
		}
	}
	return viewmodel.Layout{}
}
