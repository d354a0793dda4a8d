package httpserver

import (
	"context"

	"leavedesk/internal/domain"
)

// mockApp is a hand-rolled appService. Zero value: signed out, no view,
// every operation succeeds.
type mockApp struct {
	sess    *domain.Session
	view    domain.DashboardView
	hasView bool

	loginFn  func(ctx context.Context, email, password string) (*domain.Session, error)
	submitFn func(ctx context.Context, form *domain.LeaveForm) (*domain.LeaveRequest, error)
	decideFn func(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) error

	registerErr error
	logoutErr   error
	probeErr    error

	views      chan domain.DashboardView
	unsubCalls int
}

func (m *mockApp) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &domain.Session{Token: "tok", User: domain.User{ID: "u1", Name: "Ada", Role: domain.RoleStudent}}, nil
}

func (m *mockApp) Register(ctx context.Context, form domain.RegisterForm) error {
	return m.registerErr
}

func (m *mockApp) Logout() error {
	return m.logoutErr
}

func (m *mockApp) Session() *domain.Session {
	return m.sess
}

func (m *mockApp) View() (domain.DashboardView, bool) {
	return m.view, m.hasView
}

func (m *mockApp) Subscribe() (<-chan domain.DashboardView, func()) {
	if m.views == nil {
		m.views = make(chan domain.DashboardView, 1)
	}
	return m.views, func() { m.unsubCalls++ }
}

func (m *mockApp) Submit(ctx context.Context, form *domain.LeaveForm) (*domain.LeaveRequest, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, form)
	}
	return &domain.LeaveRequest{ID: "new", Status: domain.StatusPending}, nil
}

func (m *mockApp) Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) error {
	if m.decideFn != nil {
		return m.decideFn(ctx, requestID, status, comment)
	}
	return nil
}

func (m *mockApp) ProbeBackend(ctx context.Context) error {
	return m.probeErr
}

func signedIn(role domain.Role) *domain.Session {
	return &domain.Session{
		Token: "tok",
		User:  domain.User{ID: "u1", Name: "Ada", Role: role},
	}
}
