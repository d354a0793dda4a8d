package app

import (
	"context"
	"log/slog"

	"leavedesk/internal/domain"
)

// Service is the application layer: the only component that wires the session
// store, gateway and synchronizer together. It owns the session lifecycle —
// restore at startup, persist on login, clear on logout — and starts/stops
// polling accordingly.
type Service struct {
	gw       domain.Gateway
	store    domain.SessionStore
	sync     *Synchronizer
	submit   *Submitter
	decide   *DecisionCoordinator
	baseCtx  context.Context
}

// NewService creates the application layer. baseCtx bounds the lifetime of
// background polling; cancelling it stops everything.
func NewService(baseCtx context.Context, gw domain.Gateway, store domain.SessionStore, sync *Synchronizer) *Service {
	return &Service{
		gw:      gw,
		store:   store,
		sync:    sync,
		submit:  NewSubmitter(gw, sync),
		decide:  NewDecisionCoordinator(gw, store, sync, sync),
		baseCtx: baseCtx,
	}
}

// Resume restores a persisted session at startup and starts polling if one
// exists. It reports whether a session was restored.
func (s *Service) Resume() bool {
	sess := s.store.Load()
	if sess == nil {
		return false
	}

	if err := s.sync.Start(s.baseCtx); err != nil {
		slog.Error("Failed to start synchronizer on resume", "error", err)
		return false
	}
	slog.Info("Session restored", "user", sess.User.Name, "role", sess.User.Role)
	return true
}

// Login authenticates, persists the new session and starts polling.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.sync.Stop() // a fresh login replaces any previous polling lifecycle
	if err := s.sync.Start(s.baseCtx); err != nil {
		return nil, err
	}

	slog.Info("Signed in", "user", sess.User.Name, "role", sess.User.Role)
	return sess, nil
}

// Register proxies account creation to the backend.
func (s *Service) Register(ctx context.Context, form domain.RegisterForm) error {
	return s.gw.Register(ctx, form)
}

// Logout stops polling and destroys the session. An in-flight fetch resolving
// afterwards is discarded by the synchronizer.
func (s *Service) Logout() error {
	s.sync.Stop()
	if err := s.store.Clear(); err != nil {
		return err
	}
	slog.Info("Signed out")
	return nil
}

// Session returns the current session, or nil when signed out.
func (s *Service) Session() *domain.Session {
	return s.store.Current()
}

// View returns the last committed dashboard view.
func (s *Service) View() (domain.DashboardView, bool) {
	return s.sync.View()
}

// Subscribe registers for committed views.
func (s *Service) Subscribe() (<-chan domain.DashboardView, func()) {
	return s.sync.Subscribe()
}

// Submit validates and submits a new leave application.
func (s *Service) Submit(ctx context.Context, form *domain.LeaveForm) (*domain.LeaveRequest, error) {
	return s.submit.Submit(ctx, form)
}

// Decide approves or rejects a pending leave request.
func (s *Service) Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) error {
	return s.decide.Decide(ctx, requestID, status, comment)
}

// ProbeBackend checks backend reachability, used by readiness checks.
func (s *Service) ProbeBackend(ctx context.Context) error {
	return s.gw.Probe(ctx)
}

// Stop halts background polling without touching the persisted session.
func (s *Service) Stop() {
	s.sync.Stop()
}
