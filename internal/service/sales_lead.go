package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/panai/console/internal/domain/model"
	apperrors "github.com/panai/console/internal/errors"
	"github.com/panai/console/internal/http/validation"
	"github.com/panai/console/internal/observability/metrics"
	"github.com/panai/console/internal/observability/statsd"
	"github.com/panai/console/internal/ports"
)

// MsgLeadFailed is shown when a lead could not be stored.
const MsgLeadFailed = "Something went wrong while submitting the form. Please try again."

// SalesLeadServiceOptions groups dependencies for SalesLeadService.
type SalesLeadServiceOptions struct {
	Store     ports.LeadStore
	Notifier  ports.LeadNotifier
	Validator *validation.Validator
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// SalesLeadService captures sales form submissions.
type SalesLeadService struct {
	store     ports.LeadStore
	notifier  ports.LeadNotifier
	validator *validation.Validator
	metrics   statsd.Sink
	logger    *slog.Logger
}

// NewSalesLeadService constructs a SalesLeadService. Notifier may be nil.
func NewSalesLeadService(opts SalesLeadServiceOptions) *SalesLeadService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := opts.Validator
	if v == nil {
		v = validation.Default()
	}
	return &SalesLeadService{
		store:     opts.Store,
		notifier:  opts.Notifier,
		validator: v,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "sales_leads"),
	}
}

// Submit validates req, stores it and announces it. Validation failures are
// returned as an AppError carrying field messages and never reach the store.
// A failed notification is logged and does not fail the submission.
func (s *SalesLeadService) Submit(ctx context.Context, req model.CreateSalesLeadRequest) (*model.SalesLead, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		metrics.EmitLeadSubmission(s.metrics, metrics.LeadSubmission{Result: "invalid"})
		if fields := validation.Fields(err); fields != nil {
			return nil, apperrors.ValidationFields("Please correct the highlighted fields.", fields)
		}
		return nil, fmt.Errorf("validate sales lead: %w", err)
	}

	lead := req.Lead()
	if err := s.store.Create(ctx, &lead); err != nil {
		metrics.EmitLeadSubmission(s.metrics, metrics.LeadSubmission{Result: metrics.ResultError})
		s.logger.ErrorContext(ctx, "failed to store sales lead", "error", err)
		return nil, fmt.Errorf("create sales lead: %w", err)
	}

	notified := false
	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			s.logger.WarnContext(ctx, "sales lead notification failed", "lead_id", lead.ID, "error", err)
		} else {
			notified = true
		}
	}
	metrics.EmitLeadSubmission(s.metrics, metrics.LeadSubmission{Result: metrics.ResultSuccess, Notified: notified})
	s.logger.InfoContext(ctx, "sales lead captured", "lead_id", lead.ID)
	return &lead, nil
}

// List returns stored leads newest first.
func (s *SalesLeadService) List(ctx context.Context, opts model.SalesLeadListOptions) ([]model.SalesLead, error) {
	leads, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list sales leads: %w", err)
	}
	return leads, nil
}

// SubmitMessage turns a Submit error into the banner text for the form.
func SubmitMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (appErr.Code == apperrors.ErrCodeValidation || appErr.Code == apperrors.ErrCodeConflict) {
		return appErr.Message
	}
	return MsgLeadFailed
}
