package service

import (
	"context"
	"time"

	"github.com/okian/arena/internal/domain/contest"
	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// ContestView is the read-side contest descriptor.
type ContestView struct {
	State    string    `json:"state"`
	StartsAt time.Time `json:"starts_at,omitempty"`
	EndsAt   time.Time `json:"ends_at,omitempty"`
	Paused   bool      `json:"paused"`
}

// Contest returns the current contest descriptor.
func (s *Service) Contest(ctx context.Context) ContestView {
	now := s.now()

	s.mu.RLock()
	c := s.contest
	s.mu.RUnlock()

	return ContestView{
		State:    c.StateAt(now).String(),
		StartsAt: c.StartsAt,
		EndsAt:   c.EndsAt,
		Paused:   c.Paused,
	}
}

// SetContestWindow configures or moves the contest bounds. The window
// cannot move once the contest has finished.
func (s *Service) SetContestWindow(ctx context.Context, startsAt, endsAt time.Time) error {
	if !startsAt.IsZero() && !endsAt.IsZero() && !endsAt.After(startsAt) {
		return ErrInvalidWindow
	}
	now := s.now()

	s.mu.Lock()
	if s.contest.StateAt(now) == contest.Finished {
		s.mu.Unlock()
		return model.ErrContestFinished
	}
	s.contest.StartsAt = startsAt
	s.contest.EndsAt = endsAt
	s.finishSent = false
	c := s.contest
	s.mu.Unlock()

	s.publish(ctx, events.NewContestUpdated(events.TypeContestUpdated, c, now))
	metrics.UpdateContestState(int(c.StateAt(now)))
	s.logger.Info(ctx, "contest window set",
		logger.Time("startsAt", startsAt),
		logger.Time("endsAt", endsAt),
	)
	return nil
}

// Pause suspends the running contest.
func (s *Service) Pause(ctx context.Context) error {
	now := s.now()

	s.mu.Lock()
	if err := contestErr(s.contest, now); err != nil {
		s.mu.Unlock()
		return err
	}
	s.contest.Paused = true
	c := s.contest
	s.mu.Unlock()

	s.publish(ctx, events.NewContestUpdated(events.TypeContestPaused, c, now))
	metrics.UpdateContestState(int(contest.Paused))
	s.logger.Info(ctx, "contest paused")
	return nil
}

// Resume lifts the pause. Only a paused contest can be resumed.
func (s *Service) Resume(ctx context.Context) error {
	now := s.now()

	s.mu.Lock()
	if s.contest.StateAt(now) != contest.Paused {
		err := contestErr(s.contest, now)
		s.mu.Unlock()
		if err == nil {
			err = model.ErrContestNotPaused
		}
		return err
	}
	s.contest.Paused = false
	c := s.contest
	s.mu.Unlock()

	s.publish(ctx, events.NewContestUpdated(events.TypeContestResumed, c, now))
	metrics.UpdateContestState(int(contest.Running))
	s.logger.Info(ctx, "contest resumed")
	return nil
}

// requireRunning rejects commands outside the running contest state.
func (s *Service) requireRunning(now time.Time) error {
	s.mu.RLock()
	c := s.contest
	s.mu.RUnlock()
	return contestErr(c, now)
}

// contestErr maps a non-running contest state to its rejection kind. A
// contest with no configured start is reported as uninitialized rather
// than merely not started.
func contestErr(c contest.Contest, now time.Time) error {
	switch c.StateAt(now) {
	case contest.NotStarted:
		if c.StartsAt.IsZero() {
			return model.ErrContestNotInitialized
		}
		return model.ErrContestNotStarted
	case contest.Paused:
		return model.ErrContestPaused
	case contest.Finished:
		return model.ErrContestFinished
	default:
		return nil
	}
}
