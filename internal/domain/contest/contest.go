// Package contest implements the contest clock state machine.
//
// The state is a pure function of the configured window, the admin-settable
// pause flag and the current time. Nothing here blocks or allocates; gate
// checks may call State on every operation.
package contest

import "time"

// State enumerates the contest clock states.
type State int

// Contest clock states. Finished is terminal: once the clock passes the
// end of the window no transition leaves it, pause flag included.
const (
	NotStarted State = iota
	Running
	Paused
	Finished
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "notStarted"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Contest is the singleton timed event descriptor. It is mutated only by
// administrative action and read by every gate check.
type Contest struct {
	StartsAt time.Time
	EndsAt   time.Time
	Paused   bool
}

// StateAt computes the clock state at the given instant.
func (c Contest) StateAt(now time.Time) State {
	return Compute(now, c.StartsAt, c.EndsAt, c.Paused)
}

// Compute is the pure transition function of the contest clock.
func Compute(now, startsAt, endsAt time.Time, paused bool) State {
	if !endsAt.IsZero() && !now.Before(endsAt) {
		return Finished
	}
	if startsAt.IsZero() || now.Before(startsAt) {
		return NotStarted
	}
	if paused {
		return Paused
	}
	return Running
}
