// Package repository provides the in-memory contest store.
package repository

import (
	"context"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
)

// Standing is one leaderboard row.
type Standing struct {
	Rank        int       `json:"rank"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	TotalScore  int       `json:"total_score"`
	LastSolveAt time.Time `json:"last_solve_at,omitempty"`
}

// Store provides read/write access to all contest state. Implementations
// must make RecordSolve one atomic unit covering the solve-count read that
// freezes the points, the ledger append and the score view update, so a
// reader never observes a solve without its score effect and two solves of
// the same task can never freeze out of decay order.
type Store interface {
	// Teams
	CreateTeam(ctx context.Context, team *model.Team) error
	Team(ctx context.Context, id string) (*model.Team, error)
	Teams(ctx context.Context) []model.Team
	DisqualifyTeam(ctx context.Context, id string) error

	// Task categories
	CreateCategory(ctx context.Context, title, description string) (*model.TaskCategory, error)
	UpdateCategory(ctx context.Context, id, title, description string) (*model.TaskCategory, error)
	RemoveCategory(ctx context.Context, id string) error
	Categories(ctx context.Context) []model.TaskCategory

	// Tasks
	CreateTask(ctx context.Context, task *model.Task) error
	Task(ctx context.Context, id string) (*model.Task, error)
	Tasks(ctx context.Context) []model.Task
	UpdateTask(ctx context.Context, id, description string, hints []string, now time.Time) (*model.Task, error)
	OpenTask(ctx context.Context, id string, now time.Time) (*model.Task, error)
	CloseTask(ctx context.Context, id string, now time.Time) (*model.Task, error)
	OpenTaskCount(ctx context.Context) int

	// Submission history
	RecordAttempt(ctx context.Context, attempt model.SubmissionAttempt)
	AttemptCountSince(ctx context.Context, teamID, taskID string, since time.Time) int
	HasSolve(ctx context.Context, teamID, taskID string) bool
	SolveCount(ctx context.Context, taskID string) int
	RecordSolve(ctx context.Context, solve model.Solve, reward scoring.Scheme) (model.Solve, int, error)
	TeamSolves(ctx context.Context, teamID string) []model.Solve

	// Reviews
	AddReview(ctx context.Context, review model.TaskReview) error
	ReviewStats(ctx context.Context, taskID string) (int, float64)

	// Derived views
	Leaderboard(ctx context.Context, limit int) ([]Standing, error)
	TeamScore(ctx context.Context, teamID string) (model.TeamScoreView, error)
	RebuildScores(ctx context.Context)
	TaskStats(ctx context.Context, taskID string) (model.TaskStats, error)
	Count(ctx context.Context) int
}
