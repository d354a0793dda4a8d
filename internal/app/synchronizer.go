package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"leavedesk/internal/domain"
	"leavedesk/internal/metrics"
	"leavedesk/internal/platform/correlation"
	"leavedesk/internal/projection"
)

// DefaultPollInterval is the refresh cadence when none is configured.
const DefaultPollInterval = 4 * time.Second

// SyncState is the synchronizer's lifecycle state.
type SyncState int

const (
	SyncStopped SyncState = iota
	SyncIdle
	SyncFetching
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncFetching:
		return "fetching"
	default:
		return "stopped"
	}
}

// Synchronizer drives periodic refresh of the dashboard view.
//
// At most one fetch cycle is in flight at any time: timer ticks and
// RefreshNow calls all funnel through a single-flight group, so concurrent
// requests join the in-flight cycle instead of starting another. The interval
// is measured from the completion of the previous cycle, not wall clock, so
// slow networks cannot pile up overlapping cycles.
type Synchronizer struct {
	gw       domain.Gateway
	sessions domain.SessionSource
	clock    clockwork.Clock
	interval time.Duration

	group singleflight.Group

	mu      sync.Mutex
	state   SyncState
	gen     int // bumped on every Start and Stop; stale cycles must not commit
	cancel  context.CancelFunc
	runCtx  context.Context
	view    domain.DashboardView
	hasView bool
	subs    map[int]chan domain.DashboardView
	nextSub int
}

// NewSynchronizer creates a stopped synchronizer. interval <= 0 falls back to
// DefaultPollInterval.
func NewSynchronizer(gw domain.Gateway, sessions domain.SessionSource, clock clockwork.Clock, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Synchronizer{
		gw:       gw,
		sessions: sessions,
		clock:    clock,
		interval: interval,
		state:    SyncStopped,
		subs:     make(map[int]chan domain.DashboardView),
	}
}

// Start begins polling: one fetch immediately, then one every interval
// measured from the previous cycle's completion. Starting a running
// synchronizer is an error.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SyncStopped {
		s.mu.Unlock()
		return domain.ErrSyncRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.runCtx = runCtx
	s.cancel = cancel
	s.state = SyncIdle
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go s.run(runCtx, gen)
	return nil
}

// Stop cancels the polling loop and any in-flight fetch. A fetch that
// resolves after Stop is discarded without touching the view. Stop is
// idempotent; Start may be called again afterwards.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.state == SyncStopped {
		s.mu.Unlock()
		return
	}
	s.state = SyncStopped
	s.gen++
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
}

// RefreshNow triggers an out-of-band fetch immediately. If a cycle is already
// in flight the call joins it rather than starting a second one. Returns the
// cycle's error; a stopped synchronizer refuses to fetch.
func (s *Synchronizer) RefreshNow() error {
	s.mu.Lock()
	if s.state == SyncStopped {
		s.mu.Unlock()
		return domain.ErrSyncStopped
	}
	ctx, gen := s.runCtx, s.gen
	s.mu.Unlock()

	return s.refresh(ctx, gen)
}

// View returns the last committed view. ok is false until the first cycle of
// the current session commits.
func (s *Synchronizer) View() (domain.DashboardView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.hasView
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers for committed views. The returned cancel func must be
// called to release the subscription. Slow subscribers miss intermediate
// views instead of blocking the commit path.
func (s *Synchronizer) Subscribe() (<-chan domain.DashboardView, func()) {
	ch := make(chan domain.DashboardView, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Synchronizer) run(ctx context.Context, gen int) {
	for {
		if err := s.refresh(ctx, gen); err != nil && !isShutdownErr(err) {
			// Background failures are logged and retried on the next natural
			// tick; they are never fatal.
			slog.Warn("Background refresh failed", "error", err)
		}

		timer := s.clock.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// refresh funnels every caller through the single-flight group so concurrent
// refresh requests share one fetch cycle.
func (s *Synchronizer) refresh(ctx context.Context, gen int) error {
	_, err, shared := s.group.Do("cycle", func() (any, error) {
		return nil, s.fetchAndCommit(ctx, gen)
	})
	if shared {
		metrics.SyncCoalescedTotal.Inc()
	}
	return err
}

// fetchAndCommit runs one fetch cycle: fan out the reads concurrently, then
// commit the merged result as a single atomic step. Partial failure leaves
// the previous view bit-for-bit unchanged.
func (s *Synchronizer) fetchAndCommit(ctx context.Context, gen int) error {
	ctx = correlation.WithID(ctx, correlation.NewID())
	start := s.clock.Now()

	sess := s.sessions.Current()
	if sess == nil {
		return domain.ErrNoSession
	}
	role := sess.User.Role

	s.setFetching(gen)

	var d domain.Datasets
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.gw.StatsOverview(gctx)
		d.Stats = stats
		return err
	})
	g.Go(func() error {
		mine, err := s.gw.MyLeaves(gctx)
		d.Mine = mine
		return err
	})
	if role.CanDecide() {
		g.Go(func() error {
			pending, err := s.gw.PendingLeaves(gctx)
			d.Pending = pending
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.setIdle(gen)
		metrics.SyncCyclesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return err
	}

	view := projection.Project(role, d)

	s.mu.Lock()
	if s.gen != gen || s.state == SyncStopped {
		// Stopped (or restarted) while this cycle was in flight: discard.
		s.mu.Unlock()
		return domain.ErrSyncStopped
	}
	s.view = view
	s.hasView = true
	s.state = SyncIdle
	subs := make([]chan domain.DashboardView, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- view:
		default:
		}
	}

	metrics.SyncCyclesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.SyncCycleDuration.Observe(s.clock.Since(start).Seconds())

	slog.DebugContext(ctx, "Fetch cycle committed",
		"mine", len(view.Mine), "pending", len(view.Pending), "total", view.Stats.Total)
	return nil
}

func (s *Synchronizer) setFetching(gen int) {
	s.mu.Lock()
	if s.gen == gen && s.state == SyncIdle {
		s.state = SyncFetching
	}
	s.mu.Unlock()
}

func (s *Synchronizer) setIdle(gen int) {
	s.mu.Lock()
	if s.gen == gen && s.state == SyncFetching {
		s.state = SyncIdle
	}
	s.mu.Unlock()
}

func isShutdownErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrSyncStopped)
}
