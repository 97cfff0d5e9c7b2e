// Package fanout tracks connected live viewers and streams them the
// audience projection of every bus event in publish order.
//
// Delivery is push-based and never blocks the pump: each subscriber owns a
// bounded buffer and overflow evicts the oldest undelivered projection.
// Group membership decides exactly one projection per event; subscribers
// joining mid-contest only observe events published after they joined.
package fanout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Default fan-out configuration constants.
const (
	defaultSubscriberBuffer = 64
)

// Delivery is one projected event handed to a subscriber.
type Delivery struct {
	EventID string         `json:"id"`
	Type    events.Type    `json:"type"`
	Payload events.Payload `json:"data"`
}

// Subscriber is one connected viewer in an audience group.
type Subscriber struct {
	id     string
	scope  events.Scope
	teamID string
	ch     chan Delivery
}

// ID returns the registration id of the subscriber.
func (s *Subscriber) ID() string { return s.id }

// Scope returns the audience group of the subscriber.
func (s *Subscriber) Scope() events.Scope { return s.scope }

// TeamID returns the team the subscriber authenticated as, if any.
func (s *Subscriber) TeamID() string { return s.teamID }

// Deliveries returns the subscriber's ordered projection stream. The
// channel is closed on Unsubscribe or registry shutdown.
func (s *Subscriber) Deliveries() <-chan Delivery { return s.ch }

// Registry groups connected subscribers by audience scope and pumps bus
// events to them.
type Registry struct {
	mu      sync.RWMutex
	subs    map[string]*Subscriber
	byScope map[events.Scope]map[string]*Subscriber
	closed  bool

	bufferSize int

	// Shutdown control
	done chan struct{}

	// Logging
	logger logger.Logger
}

// NewRegistry creates a subscriber registry with configuration options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		subs:       make(map[string]*Subscriber),
		byScope:    make(map[events.Scope]map[string]*Subscriber),
		bufferSize: defaultSubscriberBuffer,
		done:       make(chan struct{}),
		logger:     logger.Get().Named("fanout"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Subscribe registers a viewer under an audience scope.
func (r *Registry) Subscribe(ctx context.Context, scope events.Scope, teamID string) (*Subscriber, error) {
	if !scope.Valid() {
		return nil, ErrUnknownScope
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	sub := &Subscriber{
		id:     uuid.New().String(),
		scope:  scope,
		teamID: teamID,
		ch:     make(chan Delivery, r.bufferSize),
	}
	r.subs[sub.id] = sub
	group, ok := r.byScope[scope]
	if !ok {
		group = make(map[string]*Subscriber)
		r.byScope[scope] = group
	}
	group[sub.id] = sub

	metrics.UpdateSubscribers(string(scope), len(group))
	r.logger.Debug(ctx, "subscriber joined",
		logger.String("id", sub.id),
		logger.String("scope", string(scope)),
	)
	return sub, nil
}

// Unsubscribe removes a viewer and closes its delivery channel.
func (r *Registry) Unsubscribe(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return
	}
	delete(r.subs, id)
	if group, ok := r.byScope[sub.scope]; ok {
		delete(group, id)
		metrics.UpdateSubscribers(string(sub.scope), len(group))
	}
	close(sub.ch)

	r.logger.Debug(ctx, "subscriber left",
		logger.String("id", id),
		logger.String("scope", string(sub.scope)),
	)
}

// Count returns the number of connected subscribers across all scopes.
func (r *Registry) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// CountByScope returns the number of connected subscribers in one scope.
func (r *Registry) CountByScope(ctx context.Context, scope events.Scope) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byScope[scope])
}

// Run consumes the stream until it closes or ctx is cancelled, dispatching
// every event to the matching audience groups in arrival order. It then
// closes all subscriber channels.
func (r *Registry) Run(ctx context.Context, stream <-chan events.Event) {
	defer r.shutdown(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			r.dispatch(event)
		}
	}
}

// dispatch pushes one projection per subscriber of each addressed scope.
func (r *Registry) dispatch(event events.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for scope, group := range r.byScope {
		payload := event.Projection(scope)
		if payload == nil {
			continue
		}
		d := Delivery{EventID: event.ID, Type: event.Type, Payload: payload}
		for _, sub := range group {
			r.push(sub, d)
		}
	}
}

// push delivers without ever blocking the pump: when the subscriber's
// buffer is full the oldest undelivered projection is evicted first.
func (r *Registry) push(sub *Subscriber, d Delivery) {
	select {
	case sub.ch <- d:
		metrics.RecordEventDelivered(string(sub.scope))
		return
	default:
	}

	// Buffer full: evict one, then retry once. The subscriber may have
	// drained concurrently, in which case the eviction is a no-op.
	select {
	case <-sub.ch:
		metrics.RecordEventDropped(string(sub.scope))
	default:
	}
	select {
	case sub.ch <- d:
		metrics.RecordEventDelivered(string(sub.scope))
	default:
		metrics.RecordEventDropped(string(sub.scope))
	}
}

// shutdown closes every subscriber channel exactly once.
func (r *Registry) shutdown(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for id, sub := range r.subs {
		close(sub.ch)
		delete(r.subs, id)
	}
	for scope, group := range r.byScope {
		for id := range group {
			delete(group, id)
		}
		metrics.UpdateSubscribers(string(scope), 0)
	}
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	r.logger.Info(ctx, "fanout registry stopped")
}

// Done is closed once the registry has shut down.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}
