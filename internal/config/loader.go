package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ARENA_ADDR, ARENA_BUS_CAPACITY, ...
	// Map env keys like ARENA_BUS_CAPACITY -> bus_capacity (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "arena_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.AttemptLimit < 1 {
		return fmt.Errorf("%w: attempt_limit must be at least 1", ErrInvalidConfig)
	}
	if c.AttemptWindowSec < 1 {
		return fmt.Errorf("%w: attempt_window_sec must be at least 1", ErrInvalidConfig)
	}
	if c.BusCapacity < 1 {
		return fmt.Errorf("%w: bus_capacity must be at least 1", ErrInvalidConfig)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("%w: subscriber_buffer must be at least 1", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	start, end, err := c.ContestWindow()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return fmt.Errorf("%w: contest_ends_at must be after contest_starts_at", ErrInvalidConfig)
	}
	return nil
}

// ContestWindow parses the configured contest bounds. Zero times mean the
// corresponding bound was not configured.
func (c *Config) ContestWindow() (start, end time.Time, err error) {
	if c.ContestStartsAt != "" {
		start, err = time.Parse(time.RFC3339, c.ContestStartsAt)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: contest_starts_at: %w", ErrInvalidConfig, err)
		}
	}
	if c.ContestEndsAt != "" {
		end, err = time.Parse(time.RFC3339, c.ContestEndsAt)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: contest_ends_at: %w", ErrInvalidConfig, err)
		}
	}
	return start, end, nil
}
