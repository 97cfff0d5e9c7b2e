// Package bus provides the ordered in-process event publish channel.
//
// Every externally visible state transition is published here exactly once,
// after its state mutation committed; the fan-out layer consumes the stream
// and delivers audience projections in publish order.
package bus

import (
	"context"
	"sync"

	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/pkg/metrics"
)

// Default bus configuration constants.
const (
	defaultCapacity = 10000
)

// Event is the payload type flowing over the bus.
type Event = events.Event

// Bus provides non-blocking publish and channel-based consume semantics.
type Bus interface {
	// Publish appends an event to the bus.
	// Returns false if the bus is full or closed and the event was dropped.
	Publish(ctx context.Context, e Event) bool

	// Stream returns a channel receiving events in publish order.
	// The channel is closed when the bus is closed and drained.
	Stream(ctx context.Context) <-chan Event

	// Len returns the current number of buffered events.
	Len(ctx context.Context) int

	// Close stops accepting publishes; buffered events still drain.
	Close() error

	// IsClosed returns true if the bus has been closed.
	IsClosed() bool
}

// InMemoryBus implements Bus using a buffered channel.
type InMemoryBus struct {
	events   chan Event
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryBus creates a new in-memory bus with configuration options.
func NewInMemoryBus(opts ...Option) *InMemoryBus {
	b := &InMemoryBus{
		capacity: defaultCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	b.events = make(chan Event, b.capacity)

	// Initialize metrics
	metrics.UpdateBusCapacity(b.capacity)
	metrics.UpdateBusSize(0)
	metrics.UpdateBusUtilization(0.0)

	return b
}

// Publish appends an event to the bus.
func (b *InMemoryBus) Publish(ctx context.Context, e Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		metrics.RecordBusPublishError()
		metrics.RecordErrorByComponent("bus", "closed")
		return false
	}

	select {
	case b.events <- e:
		metrics.RecordBusPublish()
		size := len(b.events)
		metrics.UpdateBusSize(size)
		metrics.UpdateBusUtilization(float64(size) / float64(b.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordBusPublishError()
		metrics.RecordErrorByComponent("bus", "context_cancelled")
		return false
	default:
		metrics.RecordBusPublishError()
		metrics.RecordErrorByComponent("bus", "full")
		return false
	}
}

// Stream returns a channel receiving events in publish order.
func (b *InMemoryBus) Stream(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for event := range b.events {
			select {
			case out <- event:
				size := len(b.events)
				metrics.UpdateBusSize(size)
				metrics.UpdateBusUtilization(float64(size) / float64(b.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of buffered events.
func (b *InMemoryBus) Len(ctx context.Context) int {
	return len(b.events)
}

// Close stops accepting publishes; buffered events still drain.
func (b *InMemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil // already closed
	}

	close(b.events)
	b.closed = true
	return nil
}

// IsClosed returns true if the bus has been closed.
func (b *InMemoryBus) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}
