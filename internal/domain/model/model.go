// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/okian/arena/internal/domain/scoring"
)

// Team represents a competing team. Disqualification is terminal and
// excludes the team from ranking without deleting its history.
type Team struct {
	ID             string
	Name           string
	Email          string
	EmailConfirmed bool
	Qualified      bool
	Disqualified   bool
	CreatedAt      time.Time
}

// TaskCategory is reference data grouping tasks.
type TaskCategory struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task is a scored challenge with its own open/closed lifecycle.
//
// Lifecycle: created closed, opened once by an admin while the contest is
// running, and optionally closed. A closed task never silently reopens
// under the same id.
type Task struct {
	ID            string
	Title         string
	Description   string
	Hints         []string
	CategoryID    string
	Answers       []string
	CaseSensitive bool
	Reward        scoring.Scheme
	Opened        bool
	OpenedAt      time.Time
	ClosedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpened reports whether the task currently accepts submissions.
func (t *Task) IsOpened() bool {
	return t.Opened
}

// IsClosed reports whether the task reached its terminal closed state.
func (t *Task) IsClosed() bool {
	return !t.Opened && !t.ClosedAt.IsZero()
}

// CheckAnswer compares a submitted answer against the accepted strings.
// Comparison is exact; case folding applies unless the task is marked
// case-sensitive.
func (t *Task) CheckAnswer(answer string) bool {
	submitted := strings.TrimSpace(answer)
	if !t.CaseSensitive {
		submitted = strings.ToLower(submitted)
	}
	for _, accepted := range t.Answers {
		if !t.CaseSensitive {
			accepted = strings.ToLower(accepted)
		}
		if submitted == accepted {
			return true
		}
	}
	return false
}

// SubmissionAttempt is one answer check against a task by a team.
// Attempts are append-only and drive the rate limiter and audit trail.
type SubmissionAttempt struct {
	TeamID      string
	TaskID      string
	Answer      string
	Correct     bool
	SubmittedAt time.Time
}

// Solve is the first-correct-answer record for a (team, task) pair.
// Points are frozen at award time; later decay of a dynamic task value
// never changes historical totals.
type Solve struct {
	TeamID   string
	TaskID   string
	SolvedAt time.Time
	Points   int
}

// TaskReview is one post-solve quality review per (team, task) pair.
type TaskReview struct {
	TeamID    string
	TaskID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// TeamScoreView is the derived ranking cache for one team. It is
// recomputable from Solve records at any time and carries no authority
// of its own.
type TeamScoreView struct {
	TeamID      string
	TotalScore  int
	LastSolveAt time.Time
}

// TaskStats aggregates per-task activity for the read surface.
type TaskStats struct {
	TaskID        string
	AttemptCount  int
	SolveCount    int
	FirstSolveAt  time.Time
	LastSolveAt   time.Time
	ReviewCount   int
	AverageRating float64
}
