package app

import (
	"context"
	"sync"
	"sync/atomic"

	"leavedesk/internal/domain"
)

// mockGateway is a hand-rolled domain.Gateway. Reads serve canned data and
// optionally block on gate; StatsOverview tracks cycle concurrency since
// exactly one stats read runs per fetch cycle.
type mockGateway struct {
	mu sync.Mutex

	stats      domain.StatsSnapshot
	mine       []domain.LeaveRequest
	pending    []domain.LeaveRequest
	statsErr   error
	mineErr    error
	pendingErr error
	probeErr   error

	statsCalls   int
	mineCalls    int
	pendingCalls int
	applyCalls   int
	decideCalls  int

	loginFn  func(ctx context.Context, email, password string) (*domain.Session, error)
	applyFn  func(ctx context.Context, form domain.LeaveForm) (*domain.LeaveRequest, error)
	decideFn func(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) (*domain.LeaveRequest, error)

	// gate, when non-nil, blocks every stats read until closed.
	gate chan struct{}

	cyclesInFlight    int32
	maxCyclesInFlight int32
}

func (m *mockGateway) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return &domain.Session{Token: "tok", User: domain.User{ID: "u1", Role: domain.RoleStudent}}, nil
}

func (m *mockGateway) Register(ctx context.Context, form domain.RegisterForm) error {
	return nil
}

func (m *mockGateway) StatsOverview(ctx context.Context) (domain.StatsSnapshot, error) {
	cur := atomic.AddInt32(&m.cyclesInFlight, 1)
	defer atomic.AddInt32(&m.cyclesInFlight, -1)
	for {
		max := atomic.LoadInt32(&m.maxCyclesInFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&m.maxCyclesInFlight, max, cur) {
			break
		}
	}

	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	return m.stats, m.statsErr
}

func (m *mockGateway) MyLeaves(ctx context.Context) ([]domain.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mineCalls++
	return m.mine, m.mineErr
}

func (m *mockGateway) PendingLeaves(ctx context.Context) ([]domain.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingCalls++
	return m.pending, m.pendingErr
}

func (m *mockGateway) ApplyLeave(ctx context.Context, form domain.LeaveForm) (*domain.LeaveRequest, error) {
	m.mu.Lock()
	m.applyCalls++
	m.mu.Unlock()
	if m.applyFn != nil {
		return m.applyFn(ctx, form)
	}
	created := domain.LeaveRequest{ID: "new", Status: domain.StatusPending}
	return &created, nil
}

func (m *mockGateway) Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) (*domain.LeaveRequest, error) {
	m.mu.Lock()
	m.decideCalls++
	m.mu.Unlock()
	if m.decideFn != nil {
		return m.decideFn(ctx, requestID, status, comment)
	}
	updated := domain.LeaveRequest{ID: requestID, Status: status}
	return &updated, nil
}

func (m *mockGateway) Probe(ctx context.Context) error {
	return m.probeErr
}

func (m *mockGateway) counts() (stats, mine, pending, apply, decide int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsCalls, m.mineCalls, m.pendingCalls, m.applyCalls, m.decideCalls
}

func (m *mockGateway) setPendingErr(err error) {
	m.mu.Lock()
	m.pendingErr = err
	m.mu.Unlock()
}

func (m *mockGateway) setStatsErr(err error) {
	m.mu.Lock()
	m.statsErr = err
	m.mu.Unlock()
}

// sessionStub is a fixed SessionSource.
type sessionStub struct {
	mu   sync.Mutex
	sess *domain.Session
}

func (s *sessionStub) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func sessionFor(role domain.Role) *sessionStub {
	return &sessionStub{sess: &domain.Session{
		Token: "tok",
		User:  domain.User{ID: "u1", Name: "Ada", Role: role},
	}}
}

// stubStore is an in-memory domain.SessionStore.
type stubStore struct {
	mu         sync.Mutex
	sess       *domain.Session
	persisted  *domain.Session
	saveErr    error
	clearCalls int
}

func (s *stubStore) Load() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = s.persisted
	return s.sess
}

func (s *stubStore) Save(sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sess = sess
	s.persisted = sess
	return nil
}

func (s *stubStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	s.persisted = nil
	s.clearCalls++
	return nil
}

func (s *stubStore) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// mockRefresher records RefreshNow calls.
type mockRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockRefresher) RefreshNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *mockRefresher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// stubViews serves a fixed last-committed view.
type stubViews struct {
	view domain.DashboardView
	ok   bool
}

func (s stubViews) View() (domain.DashboardView, bool) {
	return s.view, s.ok
}
