// Package validation validates form submissions with go-playground/validator and
// renders field errors as short user-facing messages keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/publicsuffix"
)

// Custom tags.
const (
	// TagWebsite accepts a bare domain or an http(s) URL whose host sits under a public suffix.
	TagWebsite = "website"
)

// FieldErrors maps a JSON field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validator wraps a configured *validator.Validate. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultOnce sync.Once
	defaultVal  *Validator
)

// Default returns a process-wide Validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultVal = New() })
	return defaultVal
}

// New builds a Validator that reports JSON field names and knows the custom tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(TagWebsite, validWebsite); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", TagWebsite, err))
	}
	return &Validator{validate: v}
}

// Struct validates s. It returns nil or FieldErrors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	labels := labelsOf(s)
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		label := labels[fe.StructField()]
		if label == "" {
			label = fe.Field()
		}
		out[fe.Field()] = message(label, fe)
	}
	return out
}

// Fields extracts FieldErrors from err, or nil.
func Fields(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case TagWebsite:
		return "Please enter a valid website"
	default:
		return label + " is invalid"
	}
}

// labelsOf reads `label` struct tags of top-level fields keyed by Go field name.
func labelsOf(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	labels := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if l := f.Tag.Get("label"); l != "" {
			labels[f.Name] = l
		}
	}
	return labels
}

func validWebsite(fl validator.FieldLevel) bool {
	return IsWebsite(fl.Field().String())
}

// IsWebsite reports whether v names a public host, with or without an http(s) scheme.
func IsWebsite(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || net.ParseIP(host) != nil {
		return false
	}
	_, err = publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	_, icann := publicsuffix.PublicSuffix(host)
	return icann
}
