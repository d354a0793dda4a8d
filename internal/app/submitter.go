package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
	"leavedesk/internal/metrics"
)

const dateLayout = "2006-01-02"

// refresher forces an immediate resynchronization after a state-changing
// action instead of waiting for the next tick.
type refresher interface {
	RefreshNow() error
}

// Submitter validates and submits new leave applications.
type Submitter struct {
	gw       domain.Gateway
	sync     refresher
	validate *validator.Validate
}

// NewSubmitter creates a submitter backed by the given gateway.
func NewSubmitter(gw domain.Gateway, sync refresher) *Submitter {
	return &Submitter{
		gw:       gw,
		sync:     sync,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Submit validates the form, submits it, and on success resets the form to
// its defaults and triggers an immediate refresh. Validation failures are
// returned before any network call. A failed submission leaves the form
// untouched so the user can retry.
func (s *Submitter) Submit(ctx context.Context, form *domain.LeaveForm) (*domain.LeaveRequest, error) {
	if err := s.validateForm(form); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	created, err := s.gw.ApplyLeave(ctx, *form)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	form.Reset()
	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := s.sync.RefreshNow(); err != nil && !isShutdownErr(err) {
		slog.Warn("Refresh after submission failed", "error", err)
	}
	return created, nil
}

func (s *Submitter) validateForm(form *domain.LeaveForm) error {
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.ValidationError(validationMessage(fe)).WithField("field", fe.Field())
		}
		return apperrors.ValidationError("invalid leave application")
	}

	start, err := time.Parse(dateLayout, form.StartDate)
	if err != nil {
		return apperrors.ValidationError("start_date must be YYYY-MM-DD").WithField("field", "StartDate")
	}
	end, err := time.Parse(dateLayout, form.EndDate)
	if err != nil {
		return apperrors.ValidationError("end_date must be YYYY-MM-DD").WithField("field", "EndDate")
	}
	if end.Before(start) {
		return apperrors.ValidationError("end_date must not be before start_date").WithField("field", "EndDate")
	}

	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be formatted as YYYY-MM-DD", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
