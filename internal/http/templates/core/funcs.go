// Package core provides the template helpers shared by every console page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"path"
	"strings"
	"time"

	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now anchors relative times; defaults to time.Now.
	Now func() time.Time
	// StaticPrefix is prepended to asset names; defaults to /static/.
	StaticPrefix string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	prefix := deps.StaticPrefix
	if prefix == "" {
		prefix = "/static/"
	}

	funcs := template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"relativeTime":  func(ts any) string { return uiutil.RelativeTime(toTime(ts), now()) },
		"friendlyTime":  func(ts any) string { return uiutil.FormatFriendlyDateTime(toTime(ts)) },
		"timeTag":       timeTag,
		"priorityClass": PriorityClass,
		"priorityLabel": PriorityLabel,
		"typeClass":     TypeClass,
		"typeLabel":     TypeLabel,
		"statusClass":   StatusClass,
		"latestStatus":  latestStatus,
		"initials":      uiutil.Initials,
		"capitalize":    uiutil.Capitalize,
		"asset":         func(name string) string { return path.Join(prefix, name) },
		"currentYear":   func() int { return now().Year() },
		"add":           func(a, b int) int { return a + b },
		"contains":      strings.Contains,
		"deref":         deref,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func timeTag(ts any) template.HTML {
	t0 := toTime(ts)
	if t0.IsZero() {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(
		`<time datetime="` + t0.UTC().Format(time.RFC3339) + `" title="` +
			template.HTMLEscapeString(t0.Local().Format(time.RFC1123)) + `">` +
			template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t0)) + `</time>`,
	)
}

// latestStatus returns the newest status entry, or the zero value.
func latestStatus(f model.Fulfillment) model.FulfillmentStatus {
	st, _ := f.LatestStatus()
	return st
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// PriorityClass maps a conversation priority to its badge class.
func PriorityClass(p model.Priority) string {
	switch p.Normalized() {
	case model.PriorityHigh:
		return "badge-danger"
	case model.PriorityMedium:
		return "badge-warning"
	case model.PriorityLow:
		return "badge-success"
	default:
		return "badge-light"
	}
}

// PriorityLabel capitalizes a priority for display.
func PriorityLabel(p model.Priority) string {
	return uiutil.Capitalize(string(p))
}

// TypeClass maps a fulfillment type to its badge class.
func TypeClass(t model.FulfillmentType) string {
	switch t.Normalized() {
	case model.FulfillmentTypePrescription:
		return "badge-info"
	case model.FulfillmentTypeOTC:
		return "badge-secondary"
	default:
		return "badge-light"
	}
}

// TypeLabel renders a fulfillment type for display.
func TypeLabel(t model.FulfillmentType) string {
	switch t.Normalized() {
	case model.FulfillmentTypePrescription:
		return "Prescription"
	case model.FulfillmentTypeOTC:
		return "OTC"
	default:
		return string(t)
	}
}

// StatusClass maps a fulfillment status to its badge class.
func StatusClass(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "COMPLETED", "FULFILLED", "DELIVERED":
		return "badge-success"
	case "CANCELLED", "CANCELED", "FAILED":
		return "badge-danger"
	case "PENDING":
		return "badge-warning"
	default:
		return "badge-info"
	}
}
