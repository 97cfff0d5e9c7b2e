// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/arena/internal/adapters/mq/bus"
	"github.com/okian/arena/internal/adapters/mq/fanout"
	repository "github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/contest"
	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultAttemptLimit        = 5
	defaultAttemptWindow       = time.Minute
	defaultBusCapacity         = 10_000
	defaultSubscriberBuffer    = 64
	defaultMaxLeaderboardLimit = 100

	finishWatchInterval = time.Second
)

// Service implements the API dependencies for the contest engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	bus      bus.Bus
	registry *fanout.Registry

	// Contest clock state, guarded by mu. finishSent latches the one
	// terminal contestFinished publication.
	contest    contest.Contest
	finishSent bool

	// Configuration
	attemptLimit        int
	attemptWindow       time.Duration
	busCapacity         int
	subscriberBuffer    int
	maxLeaderboardLimit int
	requireQualified    bool
	requireEmail        bool

	// Clock, replaceable in tests.
	now func() time.Time

	// Per-(team, task) submission serialization.
	locks pairLocks

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAttemptLimit caps submissions per team per task inside the window.
func WithAttemptLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.attemptLimit = limit
		}
	}
}

// WithAttemptWindow sets the sliding window for the attempt limit.
func WithAttemptWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.attemptWindow = window
		}
	}
}

// WithBusCapacity sets the capacity of the event bus.
func WithBusCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.busCapacity = capacity
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber live delivery buffer.
func WithSubscriberBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.subscriberBuffer = size
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard page sizes.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// WithContestWindow sets the initial contest bounds. Zero times leave the
// contest uninitialized until an admin sets the window at runtime.
func WithContestWindow(startsAt, endsAt time.Time) Option {
	return func(s *Service) {
		s.contest.StartsAt = startsAt
		s.contest.EndsAt = endsAt
	}
}

// WithQualificationRequired rejects submissions from unqualified teams.
func WithQualificationRequired(required bool) Option {
	return func(s *Service) {
		s.requireQualified = required
	}
}

// WithEmailConfirmationRequired rejects submissions from teams without a
// confirmed contact email.
func WithEmailConfirmationRequired(required bool) Option {
	return func(s *Service) {
		s.requireEmail = required
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock. Used by tests to pin time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		attemptLimit:        defaultAttemptLimit,
		attemptWindow:       defaultAttemptWindow,
		busCapacity:         defaultBusCapacity,
		subscriberBuffer:    defaultSubscriberBuffer,
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		now:                 func() time.Time { return time.Now().UTC() },
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting contest engine...")

	// Initialize components
	s.store = repository.NewMemStore(ctx)
	s.bus = bus.NewInMemoryBus(
		bus.WithCapacity(s.busCapacity),
	)
	s.registry = fanout.NewRegistry(
		fanout.WithSubscriberBuffer(s.subscriberBuffer),
		fanout.WithLogger(s.logger.Named("fanout")),
	)

	// Pump bus events to live subscribers and watch the clock until Stop.
	pumpCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	stream := s.bus.Stream(pumpCtx)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.registry.Run(pumpCtx, stream)
	}()
	go func() {
		defer s.wg.Done()
		s.watchFinish(pumpCtx)
	}()

	s.started = true
	metrics.UpdateContestState(int(s.contest.StateAt(s.now())))
	s.logger.Info(ctx, "contest engine started",
		logger.Int("attemptLimit", s.attemptLimit),
		logger.Duration("attemptWindow", s.attemptWindow),
		logger.Int("busCapacity", s.busCapacity),
		logger.Int("subscriberBuffer", s.subscriberBuffer),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()

	if !s.started {
		s.mu.Unlock()
		return
	}

	s.logger.Info(context.Background(), "stopping contest engine...")

	// Close the bus first so the registry drains remaining events.
	if s.bus != nil {
		_ = s.bus.Close()
	}
	s.started = false
	s.mu.Unlock()

	// Cancel the watcher only after the registry finished draining.
	if s.registry != nil {
		<-s.registry.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info(context.Background(), "contest engine stopped")
}

// watchFinish emits the terminal contestFinished event once the clock
// passes the end of the window.
func (s *Service) watchFinish(ctx context.Context) {
	ticker := time.NewTicker(finishWatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.emitFinishOnce(ctx)
		}
	}
}

// emitFinishOnce publishes contestFinished exactly once per contest.
func (s *Service) emitFinishOnce(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	c := s.contest
	if s.finishSent || c.StateAt(now) != contest.Finished {
		s.mu.Unlock()
		return
	}
	s.finishSent = true
	s.mu.Unlock()

	s.publish(ctx, events.NewContestUpdated(events.TypeContestFinished, c, now))
	metrics.UpdateContestState(int(contest.Finished))
	s.logger.Info(ctx, "contest finished",
		logger.Time("endsAt", c.EndsAt),
	)
}

// publish hands an event to the bus after the state change it describes
// has been committed. Bus overflow is logged and counted but never fails
// the originating operation.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if !s.bus.Publish(ctx, e) {
		s.logger.Warn(ctx, "event dropped on publish",
			logger.String("eventId", e.ID),
			logger.String("type", string(e.Type)),
		)
	}
}
