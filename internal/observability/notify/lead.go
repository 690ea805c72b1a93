// Package notify fans new sales leads out to chat sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/panai/console/internal/domain/model"
)

// LeadPayload is the canonical data sent for a new sales lead.
type LeadPayload struct {
	LeadID        string
	ContactName   string
	Email         string
	Phone         string
	Role          string
	DecisionMaker string
	PharmacyName  string
	Location      string
	PharmacySize  string
	Notes         string
	SubmittedAt   time.Time
}

// PayloadFromLead flattens a stored lead into a notification payload.
func PayloadFromLead(lead model.SalesLead) LeadPayload {
	location := joinNonEmpty(", ", deref(lead.PharmacyCity), deref(lead.PharmacyState), deref(lead.PharmacyZip))
	return LeadPayload{
		LeadID:        lead.ID,
		ContactName:   strings.TrimSpace(lead.FirstName + " " + lead.LastName),
		Email:         lead.Email,
		Phone:         deref(lead.Phone),
		Role:          lead.Role,
		DecisionMaker: lead.DecisionMaker,
		PharmacyName:  lead.PharmacyName,
		Location:      location,
		PharmacySize:  deref(lead.PharmacySize),
		Notes:         deref(lead.Notes),
		SubmittedAt:   lead.CreatedAt,
	}
}

// Sink describes a destination for lead notifications.
type Sink interface {
	SendLead(ctx context.Context, payload LeadPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload LeadPayload) error

// SendLead implements the Sink interface.
func (f SinkFunc) SendLead(ctx context.Context, payload LeadPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}

// LeadNotifierOptions configures a LeadNotifier.
type LeadNotifierOptions struct {
	Sinks   []Sink
	Timeout time.Duration
	Logger  *slog.Logger
}

// LeadNotifier delivers a lead to every configured sink.
type LeadNotifier struct {
	sinks   []Sink
	timeout time.Duration
	logger  *slog.Logger
}

// NewLeadNotifier returns a notifier; nil sinks are skipped.
func NewLeadNotifier(opts LeadNotifierOptions) *LeadNotifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sinks := make([]Sink, 0, len(opts.Sinks))
	for _, s := range opts.Sinks {
		if s != nil {
			sinks = append(sinks, s)
		}
	}
	return &LeadNotifier{sinks: sinks, timeout: opts.Timeout, logger: logger.With("component", "lead_notifier")}
}

// Enabled reports whether any sink is configured.
func (n *LeadNotifier) Enabled() bool { return n != nil && len(n.sinks) > 0 }

// NotifyLead sends lead to every sink and joins their errors.
func (n *LeadNotifier) NotifyLead(ctx context.Context, lead model.SalesLead) error {
	if !n.Enabled() {
		return nil
	}
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	payload := PayloadFromLead(lead)
	var errs []error
	for i, sink := range n.sinks {
		if err := sink.SendLead(ctx, payload); err != nil {
			n.logger.WarnContext(ctx, "lead notification failed", "sink", i, "lead_id", lead.ID, "error", err)
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
