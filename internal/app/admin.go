package service

import (
	"context"
	"strings"

	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// CreateTeam registers a competing team. The team enters the ranking
// immediately with a zero score.
func (s *Service) CreateTeam(ctx context.Context, team *model.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return ErrInvalidTeam
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = s.now()
	}
	if err := s.store.CreateTeam(ctx, team); err != nil {
		return err
	}
	metrics.UpdateTeamsRanked(s.store.Count(ctx))
	s.logger.Info(ctx, "team created",
		logger.String("teamId", team.ID),
		logger.String("name", team.Name),
	)
	return nil
}

// DisqualifyTeam drops a team from the ranking. Its submission history
// stays on record.
func (s *Service) DisqualifyTeam(ctx context.Context, teamID string) error {
	if err := s.store.DisqualifyTeam(ctx, teamID); err != nil {
		return err
	}
	s.logger.Info(ctx, "team disqualified",
		logger.String("teamId", teamID),
	)
	return nil
}

// CreateTask registers a task in its initial closed state. No event is
// published until the task opens.
func (s *Service) CreateTask(ctx context.Context, task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" || len(task.Answers) == 0 || task.Reward == nil {
		return ErrInvalidTask
	}
	now := s.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if err := s.store.CreateTask(ctx, task); err != nil {
		return err
	}
	s.logger.Info(ctx, "task created",
		logger.String("taskId", task.ID),
		logger.String("title", task.Title),
	)
	return nil
}

// UpdateTask replaces a task's description and hints and announces the
// change. Closed tasks are immutable.
func (s *Service) UpdateTask(ctx context.Context, taskID, description string, hints []string) (*model.Task, error) {
	now := s.now()

	task, err := s.store.UpdateTask(ctx, taskID, description, hints, now)
	if err != nil {
		return nil, err
	}

	solveCount := s.store.SolveCount(ctx, taskID)
	s.publish(ctx, events.NewTaskUpdated(task, task.Reward.Value(solveCount), solveCount))

	s.logger.Info(ctx, "task updated",
		logger.String("taskId", taskID),
	)
	return task, nil
}

// OpenTask makes a task available for submissions. Only a running contest
// accepts the transition; reopening and opening a closed task are rejected
// by kind.
func (s *Service) OpenTask(ctx context.Context, taskID string) (*model.Task, error) {
	now := s.now()
	if err := s.requireRunning(now); err != nil {
		return nil, err
	}

	task, err := s.store.OpenTask(ctx, taskID, now)
	if err != nil {
		return nil, err
	}
	metrics.UpdateOpenTasks(s.store.OpenTaskCount(ctx))

	solveCount := s.store.SolveCount(ctx, taskID)
	s.publish(ctx, events.NewTaskOpened(task, task.Reward.Value(solveCount), solveCount))

	s.logger.Info(ctx, "task opened",
		logger.String("taskId", taskID),
	)
	return task, nil
}

// CloseTask retires a task. The transition is terminal and allowed in any
// contest state so a broken task can be pulled even while paused.
func (s *Service) CloseTask(ctx context.Context, taskID string) (*model.Task, error) {
	now := s.now()

	task, err := s.store.CloseTask(ctx, taskID, now)
	if err != nil {
		return nil, err
	}
	metrics.UpdateOpenTasks(s.store.OpenTaskCount(ctx))

	solveCount := s.store.SolveCount(ctx, taskID)
	s.publish(ctx, events.NewTaskClosed(task, task.Reward.Value(solveCount), solveCount))

	s.logger.Info(ctx, "task closed",
		logger.String("taskId", taskID),
	)
	return task, nil
}

// CreateCategory adds task reference data and announces it.
func (s *Service) CreateCategory(ctx context.Context, title, description string) (*model.TaskCategory, error) {
	category, err := s.store.CreateCategory(ctx, title, description)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewCreateTaskCategory(category))
	return category, nil
}

// UpdateCategory renames task reference data and announces the change.
func (s *Service) UpdateCategory(ctx context.Context, id, title, description string) (*model.TaskCategory, error) {
	category, err := s.store.UpdateCategory(ctx, id, title, description)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewUpdateTaskCategory(category))
	return category, nil
}

// RemoveCategory deletes unreferenced task reference data.
func (s *Service) RemoveCategory(ctx context.Context, id string) error {
	if err := s.store.RemoveCategory(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewRemoveTaskCategory(id))
	return nil
}

// Categories lists task reference data.
func (s *Service) Categories(ctx context.Context) []model.TaskCategory {
	return s.store.Categories(ctx)
}

// RebuildScores recomputes every derived score view from the solve ledger.
func (s *Service) RebuildScores(ctx context.Context) {
	s.store.RebuildScores(ctx)
	s.logger.Info(ctx, "score views rebuilt")
}
