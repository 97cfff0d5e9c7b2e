package service

import (
	"context"
	"time"

	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Rejection kinds reported to metrics.
const (
	rejectContestState = "contest_state"
	rejectTeam         = "team"
	rejectTask         = "task"
	rejectAlreadySolve = "already_solved"
	rejectAttemptLimit = "attempt_limit"
)

// Submit runs one answer through the submission gate. On a first correct
// answer it freezes the task's current value into a Solve and returns it;
// every other outcome maps to a sentinel kind the caller can branch on.
//
// Submissions for the same (team, task) pair are serialized, so exactly
// one of two concurrent correct answers produces the Solve.
func (s *Service) Submit(ctx context.Context, teamID, taskID, answer string) (*model.Solve, error) {
	start := time.Now()
	now := s.now()

	if err := s.requireRunning(now); err != nil {
		metrics.RecordSubmissionRejected(rejectContestState)
		return nil, err
	}

	team, err := s.eligibleTeam(ctx, teamID)
	if err != nil {
		metrics.RecordSubmissionRejected(rejectTeam)
		return nil, err
	}

	unlock := s.locks.acquire(teamID, taskID)
	defer unlock()

	task, err := s.store.Task(ctx, taskID)
	if err != nil {
		metrics.RecordSubmissionRejected(rejectTask)
		return nil, err
	}
	if task.IsClosed() {
		metrics.RecordSubmissionRejected(rejectTask)
		return nil, model.ErrTaskClosed
	}
	if !task.IsOpened() {
		metrics.RecordSubmissionRejected(rejectTask)
		return nil, model.ErrTaskNotOpened
	}

	if s.store.HasSolve(ctx, teamID, taskID) {
		metrics.RecordSubmissionRejected(rejectAlreadySolve)
		return nil, model.ErrTaskAlreadySolved
	}

	// Rate limit: rejected submissions leave no attempt record, so a team
	// throttled at the limit is not pushed further out by retrying.
	since := now.Add(-s.attemptWindow)
	if s.store.AttemptCountSince(ctx, teamID, taskID, since) >= s.attemptLimit {
		metrics.RecordSubmissionRejected(rejectAttemptLimit)
		return nil, model.ErrTaskSubmitAttemptsLimit
	}

	correct := task.CheckAnswer(answer)
	s.store.RecordAttempt(ctx, model.SubmissionAttempt{
		TeamID:      teamID,
		TaskID:      taskID,
		Answer:      answer,
		Correct:     correct,
		SubmittedAt: now,
	})
	if !correct {
		metrics.RecordWrongAnswer()
		s.logger.Debug(ctx, "wrong answer",
			logger.String("teamId", teamID),
			logger.String("taskId", taskID),
		)
		return nil, model.ErrWrongTaskAnswer
	}

	// The store freezes the points at commit time: the solve-count read
	// and the ledger append happen under one lock, so two teams racing on
	// the same task can never freeze values out of decay order.
	solve, solveCount, err := s.store.RecordSolve(ctx, model.Solve{
		TeamID:   teamID,
		TaskID:   taskID,
		SolvedAt: now,
	}, task.Reward)
	if err != nil {
		metrics.RecordSubmissionRejected(rejectAlreadySolve)
		return nil, err
	}

	metrics.RecordSolve()
	metrics.RecordSubmissionProcessed()
	metrics.RecordSubmissionLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTeamsRanked(s.store.Count(ctx))

	// Publish after commit so subscribers never observe a solve the store
	// could still reject.
	currentValue := task.Reward.Value(solveCount)
	s.publish(ctx, events.NewTaskSolved(solve, team.Name, task, currentValue, solveCount))

	s.logger.Info(ctx, "task solved",
		logger.String("teamId", teamID),
		logger.String("taskId", taskID),
		logger.Int("points", solve.Points),
		logger.Int("solves", solveCount),
	)
	return &solve, nil
}

// eligibleTeam loads a team and applies the participation policy.
func (s *Service) eligibleTeam(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.store.Team(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.Disqualified {
		return nil, model.ErrTeamNotQualified
	}
	if s.requireQualified && !team.Qualified {
		return nil, model.ErrTeamNotQualified
	}
	if s.requireEmail && !team.EmailConfirmed {
		return nil, model.ErrEmailNotConfirmed
	}
	return team, nil
}

// SubmitReview records a post-solve review and surfaces it to supervisors.
func (s *Service) SubmitReview(ctx context.Context, teamID, taskID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	now := s.now()

	if _, err := s.store.Team(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.store.Task(ctx, taskID); err != nil {
		return err
	}

	review := model.TaskReview{
		TeamID:    teamID,
		TaskID:    taskID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	}
	if err := s.store.AddReview(ctx, review); err != nil {
		return err
	}
	metrics.RecordReview()

	reviewCount, averageRating := s.store.ReviewStats(ctx, taskID)
	s.publish(ctx, events.NewReviewTask(review, reviewCount, averageRating))

	s.logger.Info(ctx, "task reviewed",
		logger.String("teamId", teamID),
		logger.String("taskId", taskID),
		logger.Int("rating", rating),
	)
	return nil
}
