// Package bus provides the ordered in-process event publish channel.
package bus

// Option applies a configuration option to the InMemoryBus.
type Option func(*InMemoryBus)

// WithCapacity sets the maximum number of buffered events.
func WithCapacity(capacity int) Option {
	return func(b *InMemoryBus) {
		if capacity > 0 {
			b.capacity = capacity
		}
	}
}
