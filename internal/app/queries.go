package service

import (
	"context"
	"runtime"
	"time"

	"github.com/okian/arena/internal/adapters/mq/fanout"
	repository "github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/internal/domain/model"
)

// TaskView is one task as presented to a viewer. Value reflects the
// current dynamic worth; answer material never leaves the store.
type TaskView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Hints       []string  `json:"hints,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Value       int       `json:"value"`
	Solves      int       `json:"solves"`
	Opened      bool      `json:"opened"`
	Closed      bool      `json:"closed"`
	SolvedByMe  bool      `json:"solved_by_me,omitempty"`
	OpenedAt    time.Time `json:"opened_at,omitempty"`
}

// Tasks lists all non-draft tasks for a viewer. Descriptions and hints
// appear only for opened tasks; solvedByMe is filled when the viewer is a
// team.
func (s *Service) Tasks(ctx context.Context, viewerTeamID string) []TaskView {
	tasks := s.store.Tasks(ctx)
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		solveCount := s.store.SolveCount(ctx, t.ID)
		view := TaskView{
			ID:         t.ID,
			Title:      t.Title,
			CategoryID: t.CategoryID,
			Value:      t.Reward.Value(solveCount),
			Solves:     solveCount,
			Opened:     t.IsOpened(),
			Closed:     t.IsClosed(),
			OpenedAt:   t.OpenedAt,
		}
		if t.IsOpened() {
			view.Description = t.Description
			view.Hints = t.Hints
		}
		if viewerTeamID != "" {
			view.SolvedByMe = s.store.HasSolve(ctx, viewerTeamID, t.ID)
		}
		views = append(views, view)
	}
	return views
}

// Leaderboard returns the top standings. The limit is clamped to the
// configured maximum; zero means the maximum.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]repository.Standing, error) {
	if limit <= 0 || limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	return s.store.Leaderboard(ctx, limit)
}

// TeamScore returns one team's derived score view.
func (s *Service) TeamScore(ctx context.Context, teamID string) (model.TeamScoreView, error) {
	return s.store.TeamScore(ctx, teamID)
}

// Teams lists registered teams.
func (s *Service) Teams(ctx context.Context) []model.Team {
	return s.store.Teams(ctx)
}

// TaskStats returns per-task activity aggregates. Stats for a task that
// has never been opened stay hidden; closed tasks were visible once and
// keep their aggregates.
func (s *Service) TaskStats(ctx context.Context, taskID string) (model.TaskStats, error) {
	task, err := s.store.Task(ctx, taskID)
	if err != nil {
		return model.TaskStats{}, err
	}
	if task.OpenedAt.IsZero() {
		return model.TaskStats{}, model.ErrTaskNotAvailable
	}
	return s.store.TaskStats(ctx, taskID)
}

// Subscribe attaches a live viewer to an audience scope.
func (s *Service) Subscribe(ctx context.Context, scope events.Scope, teamID string) (*fanout.Subscriber, error) {
	s.mu.RLock()
	started := s.started
	registry := s.registry
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	return registry.Subscribe(ctx, scope, teamID)
}

// Unsubscribe detaches a live viewer.
func (s *Service) Unsubscribe(ctx context.Context, id string) {
	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()
	if registry != nil {
		registry.Unsubscribe(ctx, id)
	}
}

// Stats aggregates operational counters for the stats endpoint.
type Stats struct {
	ContestState string `json:"contest_state"`
	Teams        int    `json:"teams"`
	OpenTasks    int    `json:"open_tasks"`
	BusSize      int    `json:"bus_size"`
	Subscribers  int    `json:"subscribers"`
	Goroutines   int    `json:"goroutines"`
}

// GetStats returns a snapshot of operational counters.
func (s *Service) GetStats(ctx context.Context) Stats {
	st := Stats{
		ContestState: s.Contest(ctx).State,
		Goroutines:   runtime.NumGoroutine(),
	}
	if s.store != nil {
		st.Teams = s.store.Count(ctx)
		st.OpenTasks = s.store.OpenTaskCount(ctx)
	}
	if s.bus != nil {
		st.BusSize = s.bus.Len(ctx)
	}
	if s.registry != nil {
		st.Subscribers = s.registry.Count(ctx)
	}
	return st
}
