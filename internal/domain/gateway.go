package domain

import "context"

// Gateway is the typed, session-aware transport to the leave backend.
// Implementations attach the session token to authenticated calls and perform
// no retries and no caching.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, form RegisterForm) error

	StatsOverview(ctx context.Context) (StatsSnapshot, error)
	MyLeaves(ctx context.Context) ([]LeaveRequest, error)
	PendingLeaves(ctx context.Context) ([]LeaveRequest, error)

	ApplyLeave(ctx context.Context, form LeaveForm) (*LeaveRequest, error)
	Decide(ctx context.Context, requestID string, status LeaveStatus, comment string) (*LeaveRequest, error)

	// Probe checks backend reachability without authentication.
	Probe(ctx context.Context) error
}
