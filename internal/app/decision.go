package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
	"leavedesk/internal/metrics"
)

// viewSource supplies the last committed view, used to check that a request
// is still pending before asking the backend to decide it.
type viewSource interface {
	View() (domain.DashboardView, bool)
}

// DecisionCoordinator performs the approve/reject transition for a single
// pending request. It enforces the client-side preconditions (deciding role,
// target still pending in the last committed view) before any network call,
// and guards against duplicate submissions for the same request. The backend
// stays the final authority: if two approvers race, its conflict response is
// surfaced, never retried.
type DecisionCoordinator struct {
	gw       domain.Gateway
	sessions domain.SessionSource
	views    viewSource
	sync     refresher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewDecisionCoordinator creates a coordinator over the given view source.
func NewDecisionCoordinator(gw domain.Gateway, sessions domain.SessionSource, views viewSource, sync refresher) *DecisionCoordinator {
	return &DecisionCoordinator{
		gw:       gw,
		sessions: sessions,
		views:    views,
		sync:     sync,
		inFlight: make(map[string]struct{}),
	}
}

// Decide requests the pending → status transition for requestID and triggers
// an immediate refresh on success.
func (d *DecisionCoordinator) Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) error {
	if err := d.check(requestID, status); err != nil {
		metrics.DecisionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return err
	}

	if err := d.acquire(requestID); err != nil {
		metrics.DecisionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return err
	}
	defer d.release(requestID)

	if _, err := d.gw.Decide(ctx, requestID, status, comment); err != nil {
		metrics.DecisionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		// The backend refusing the transition means we lost a race on a
		// stale render; report it as a conflict, not a generic failure.
		var structured *apperrors.Error
		if errors.As(err, &structured) && structured.Type == apperrors.TypeBackend && structured.Status == http.StatusConflict {
			return apperrors.ConflictError(structured.Message).WithField("request_id", requestID)
		}
		return err
	}

	metrics.DecisionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := d.sync.RefreshNow(); err != nil && !isShutdownErr(err) {
		slog.Warn("Refresh after decision failed", "error", err)
	}
	return nil
}

// check enforces the client-side preconditions without any network call.
func (d *DecisionCoordinator) check(requestID string, status domain.LeaveStatus) error {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return apperrors.ValidationError("decision status must be approved or rejected").WithField("status", string(status))
	}

	sess := d.sessions.Current()
	if sess == nil {
		return apperrors.AuthorizationError("not signed in")
	}
	if !sess.User.Role.CanDecide() {
		return apperrors.AuthorizationError("role may not decide leave requests").WithField("role", string(sess.User.Role))
	}

	view, ok := d.views.View()
	if !ok {
		return apperrors.ConflictError("no synchronized view yet").WithField("request_id", requestID)
	}
	for _, req := range view.Pending {
		if req.ID == requestID {
			// Projection guarantees everything in the queue is pending.
			return nil
		}
	}
	return apperrors.ConflictError("request is no longer pending").WithField("request_id", requestID)
}

// acquire marks the request as having a decision in flight, refusing
// concurrent duplicates for the same request.
func (d *DecisionCoordinator) acquire(requestID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[requestID]; busy {
		return apperrors.ConflictError("a decision for this request is already in flight").WithField("request_id", requestID)
	}
	d.inFlight[requestID] = struct{}{}
	return nil
}

func (d *DecisionCoordinator) release(requestID string) {
	d.mu.Lock()
	delete(d.inFlight, requestID)
	d.mu.Unlock()
}
