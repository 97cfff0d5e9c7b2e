// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ContestStartsAt and ContestEndsAt bound the contest window (RFC3339).
	// Empty values leave the contest uninitialized until set at runtime.
	ContestStartsAt string `koanf:"contest_starts_at"`
	ContestEndsAt   string `koanf:"contest_ends_at"`

	// AttemptLimit caps submissions per team per task inside the window.
	AttemptLimit int `koanf:"attempt_limit"`

	// AttemptWindowSec is the sliding window for the attempt limit.
	AttemptWindowSec int `koanf:"attempt_window_sec"`

	// BusCapacity bounds the in-memory event bus.
	BusCapacity int `koanf:"bus_capacity"`

	// SubscriberBuffer sets the per-subscriber live delivery buffer.
	SubscriberBuffer int `koanf:"subscriber_buffer"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RequireQualified rejects submissions from unqualified teams.
	RequireQualified bool `koanf:"require_qualified"`

	// RequireEmailConfirmed rejects submissions from teams without a
	// confirmed contact email.
	RequireEmailConfirmed bool `koanf:"require_email_confirmed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		AttemptLimit:          5,
		AttemptWindowSec:      60,
		BusCapacity:           10_000,
		SubscriberBuffer:      64,
		MaxLeaderboardLimit:   100,
		RequireQualified:      false,
		RequireEmailConfirmed: false,
	}
	return c
}
