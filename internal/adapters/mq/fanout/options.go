package fanout

import "github.com/okian/arena/pkg/logger"

// Option configures the registry.
type Option func(*Registry)

// WithSubscriberBuffer sets the per-subscriber delivery buffer size.
func WithSubscriberBuffer(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.bufferSize = n
		}
	}
}

// WithLogger sets the logger used by the registry.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}
