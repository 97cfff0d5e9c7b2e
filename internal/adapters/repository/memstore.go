// Package repository provides the in-memory contest store.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
	"github.com/okian/arena/pkg/metrics"
)

type pairKey struct {
	teamID string
	taskID string
}

// MemStore implements Store with in-process maps guarded by one RWMutex.
//
// The single lock is what makes the Solve write and the score view update
// one atomic unit: both happen inside RecordSolve under the write lock, so
// no reader can see one without the other.
type MemStore struct {
	mu sync.RWMutex

	teams      map[string]*model.Team
	categories map[string]*model.TaskCategory
	tasks      map[string]*model.Task

	attempts           []model.SubmissionAttempt
	attemptTimes       map[pairKey][]time.Time
	attemptCountByTask map[string]int

	solves       map[pairKey]model.Solve
	solvesByTask map[string][]model.Solve
	solvesByTeam map[string][]model.Solve

	reviews       map[pairKey]model.TaskReview
	reviewsByTask map[string][]model.TaskReview

	scores map[string]*model.TeamScoreView
	ranks  *rankTree
}

// NewMemStore constructs an empty contest store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		teams:              make(map[string]*model.Team),
		categories:         make(map[string]*model.TaskCategory),
		tasks:              make(map[string]*model.Task),
		attemptTimes:       make(map[pairKey][]time.Time),
		attemptCountByTask: make(map[string]int),
		solves:             make(map[pairKey]model.Solve),
		solvesByTask:       make(map[string][]model.Solve),
		solvesByTeam:       make(map[string][]model.Solve),
		reviews:            make(map[pairKey]model.TaskReview),
		reviewsByTask:      make(map[string][]model.TaskReview),
		scores:             make(map[string]*model.TeamScoreView),
		ranks:              newRankTree(),
	}
}

// CreateTeam registers a team and seeds its zero score view.
func (s *MemStore) CreateTeam(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	if _, exists := s.teams[team.ID]; exists {
		return model.ErrInternal
	}
	cp := *team
	s.teams[team.ID] = &cp
	s.scores[team.ID] = &model.TeamScoreView{TeamID: team.ID}
	if !cp.Disqualified {
		s.ranks.upsert(team.ID, 0, 0)
	}
	metrics.UpdateTeamsRanked(s.ranks.len())
	return nil
}

// Team returns a copy of the stored team.
func (s *MemStore) Team(ctx context.Context, id string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

// Teams lists all teams ordered by creation time.
func (s *MemStore) Teams(ctx context.Context) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DisqualifyTeam marks a team disqualified and removes it from ranking.
// Its attempts and solves remain for audit.
func (s *MemStore) DisqualifyTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return model.ErrTeamNotFound
	}
	t.Disqualified = true
	s.ranks.drop(id)
	metrics.UpdateTeamsRanked(s.ranks.len())
	return nil
}

// CreateCategory adds reference data with a unique title.
func (s *MemStore) CreateCategory(ctx context.Context, title, description string) (*model.TaskCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Title == title {
			return nil, model.ErrDuplicateCategoryTitle
		}
	}
	now := time.Now().UTC()
	cat := &model.TaskCategory{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories[cat.ID] = cat
	cp := *cat
	return &cp, nil
}

// UpdateCategory renames reference data keeping titles unique.
func (s *MemStore) UpdateCategory(ctx context.Context, id, title, description string) (*model.TaskCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	for _, c := range s.categories {
		if c.ID != id && c.Title == title {
			return nil, model.ErrDuplicateCategoryTitle
		}
	}
	cat.Title = title
	cat.Description = description
	cat.UpdatedAt = time.Now().UTC()
	cp := *cat
	return &cp, nil
}

// RemoveCategory deletes reference data unless a task still references it.
func (s *MemStore) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return model.ErrCategoryNotFound
	}
	for _, t := range s.tasks {
		if t.CategoryID == id {
			return model.ErrCategoryAttached
		}
	}
	delete(s.categories, id)
	return nil
}

// Categories lists reference data ordered by creation time.
func (s *MemStore) Categories(ctx context.Context) []model.TaskCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TaskCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CreateTask registers a task in its initial closed state.
func (s *MemStore) CreateTask(ctx context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.Title == task.Title {
			return model.ErrDuplicateTaskTitle
		}
	}
	if task.CategoryID != "" {
		if _, ok := s.categories[task.CategoryID]; !ok {
			return model.ErrCategoryNotFound
		}
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	task.Opened = false
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

// Task returns a copy of the stored task.
func (s *MemStore) Task(ctx context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

// Tasks lists all tasks ordered by creation time.
func (s *MemStore) Tasks(ctx context.Context) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpdateTask replaces a task's solver-facing material. Closed tasks are
// immutable.
func (s *MemStore) UpdateTask(ctx context.Context, id, description string, hints []string, now time.Time) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	if t.IsClosed() {
		return nil, model.ErrTaskClosed
	}
	t.Description = description
	t.Hints = append([]string(nil), hints...)
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

// OpenTask transitions a task from closed to opened. A task that reached
// its terminal closed state does not reopen under the same id.
func (s *MemStore) OpenTask(ctx context.Context, id string, now time.Time) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	if t.Opened {
		return nil, model.ErrTaskAlreadyOpened
	}
	if t.IsClosed() {
		return nil, model.ErrTaskAlreadyClosed
	}
	t.Opened = true
	t.OpenedAt = now
	t.UpdatedAt = now
	metrics.UpdateOpenTasks(s.openTaskCountLocked())
	cp := *t
	return &cp, nil
}

// CloseTask transitions an opened task to its terminal closed state.
func (s *MemStore) CloseTask(ctx context.Context, id string, now time.Time) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	if t.IsClosed() {
		return nil, model.ErrTaskAlreadyClosed
	}
	if !t.Opened {
		return nil, model.ErrTaskNotOpened
	}
	t.Opened = false
	t.ClosedAt = now
	t.UpdatedAt = now
	metrics.UpdateOpenTasks(s.openTaskCountLocked())
	cp := *t
	return &cp, nil
}

func (s *MemStore) openTaskCountLocked() int {
	n := 0
	for _, t := range s.tasks {
		if t.Opened {
			n++
		}
	}
	return n
}

// OpenTaskCount returns the number of currently opened tasks.
func (s *MemStore) OpenTaskCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openTaskCountLocked()
}

// RecordAttempt appends one submission attempt to the audit trail.
func (s *MemStore) RecordAttempt(ctx context.Context, attempt model.SubmissionAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{teamID: attempt.TeamID, taskID: attempt.TaskID}
	s.attempts = append(s.attempts, attempt)
	s.attemptTimes[key] = append(s.attemptTimes[key], attempt.SubmittedAt)
	s.attemptCountByTask[attempt.TaskID]++
}

// AttemptCountSince counts a pair's attempts made at or after since.
func (s *MemStore) AttemptCountSince(ctx context.Context, teamID, taskID string, since time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	times := s.attemptTimes[pairKey{teamID: teamID, taskID: taskID}]
	n := 0
	for _, ts := range times {
		if !ts.Before(since) {
			n++
		}
	}
	return n
}

// HasSolve reports whether the pair already has its unique solve.
func (s *MemStore) HasSolve(ctx context.Context, teamID, taskID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.solves[pairKey{teamID: teamID, taskID: taskID}]
	return ok
}

// SolveCount returns the number of recorded solves for a task.
func (s *MemStore) SolveCount(ctx context.Context, taskID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.solvesByTask[taskID])
}

// RecordSolve freezes the task's current value into the solve and persists
// the record with its score view effect as one atomic unit. Computing the
// points from the solve count under the same lock as the append is what
// keeps awarded values non-increasing per task: no later solve can commit
// a lower value before an earlier read commits a higher one. Returns the
// committed solve and the task's new solve count.
func (s *MemStore) RecordSolve(ctx context.Context, solve model.Solve, reward scoring.Scheme) (model.Solve, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{teamID: solve.TeamID, taskID: solve.TaskID}
	if _, exists := s.solves[key]; exists {
		return model.Solve{}, 0, model.ErrTaskAlreadySolved
	}
	team, ok := s.teams[solve.TeamID]
	if !ok {
		return model.Solve{}, 0, model.ErrTeamNotFound
	}

	solve.Points = reward.Value(len(s.solvesByTask[solve.TaskID]))
	s.solves[key] = solve
	s.solvesByTask[solve.TaskID] = append(s.solvesByTask[solve.TaskID], solve)
	s.solvesByTeam[solve.TeamID] = append(s.solvesByTeam[solve.TeamID], solve)

	view, ok := s.scores[solve.TeamID]
	if !ok {
		view = &model.TeamScoreView{TeamID: solve.TeamID}
		s.scores[solve.TeamID] = view
	}
	view.TotalScore += solve.Points
	view.LastSolveAt = solve.SolvedAt
	if !team.Disqualified {
		s.ranks.upsert(solve.TeamID, view.TotalScore, solve.SolvedAt.UnixNano())
	}

	return solve, len(s.solvesByTask[solve.TaskID]), nil
}

// TeamSolves returns a team's solves in record order.
func (s *MemStore) TeamSolves(ctx context.Context, teamID string) []model.Solve {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.solvesByTeam[teamID]
	out := make([]model.Solve, len(src))
	copy(out, src)
	return out
}

// AddReview records the single post-solve review for a pair.
func (s *MemStore) AddReview(ctx context.Context, review model.TaskReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{teamID: review.TeamID, taskID: review.TaskID}
	if _, solved := s.solves[key]; !solved {
		return model.ErrTaskReviewNotEligible
	}
	if _, exists := s.reviews[key]; exists {
		return model.ErrTaskReviewAlreadyGiven
	}
	s.reviews[key] = review
	s.reviewsByTask[review.TaskID] = append(s.reviewsByTask[review.TaskID], review)
	return nil
}

// ReviewStats returns the review count and average rating for a task.
func (s *MemStore) ReviewStats(ctx context.Context, taskID string) (int, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviewStatsLocked(taskID)
}

func (s *MemStore) reviewStatsLocked(taskID string) (int, float64) {
	reviews := s.reviewsByTask[taskID]
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return len(reviews), float64(sum) / float64(len(reviews))
}

// Leaderboard returns up to limit ranked standings. Disqualified teams are
// absent; teams without solves rank after scoring teams at the same total.
func (s *MemStore) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.ranks.top(limit)
	out := make([]Standing, 0, len(keys))
	for i, key := range keys {
		row := Standing{
			Rank:       i + 1,
			TeamID:     key.id,
			TotalScore: key.score,
		}
		if key.lastSolve != 0 {
			row.LastSolveAt = time.Unix(0, key.lastSolve).UTC()
		}
		if team, ok := s.teams[key.id]; ok {
			row.TeamName = team.Name
		}
		out = append(out, row)
	}
	return out, nil
}

// TeamScore returns the cached score view for one team.
func (s *MemStore) TeamScore(ctx context.Context, teamID string) (model.TeamScoreView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.scores[teamID]
	if !ok {
		return model.TeamScoreView{}, model.ErrTeamNotFound
	}
	return *view, nil
}

// RebuildScores recomputes every score view and the ranking index from the
// solve history. The cache carries no authority; this always converges to
// the same state the incremental updates maintain.
func (s *MemStore) RebuildScores(ctx context.Context) {
	start := time.Now()

	s.mu.Lock()
	s.ranks = newRankTree()
	for id, team := range s.teams {
		view := &model.TeamScoreView{TeamID: id}
		for _, solve := range s.solvesByTeam[id] {
			view.TotalScore += solve.Points
			if solve.SolvedAt.After(view.LastSolveAt) {
				view.LastSolveAt = solve.SolvedAt
			}
		}
		s.scores[id] = view
		if !team.Disqualified {
			var last int64
			if !view.LastSolveAt.IsZero() {
				last = view.LastSolveAt.UnixNano()
			}
			s.ranks.upsert(id, view.TotalScore, last)
		}
	}
	ranked := s.ranks.len()
	s.mu.Unlock()

	metrics.RecordScoreRebuild(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTeamsRanked(ranked)
}

// TaskStats aggregates per-task activity for the read surface.
func (s *MemStore) TaskStats(ctx context.Context, taskID string) (model.TaskStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tasks[taskID]; !ok {
		return model.TaskStats{}, model.ErrTaskNotFound
	}
	stats := model.TaskStats{
		TaskID:       taskID,
		AttemptCount: s.attemptCountByTask[taskID],
		SolveCount:   len(s.solvesByTask[taskID]),
	}
	for _, solve := range s.solvesByTask[taskID] {
		if stats.FirstSolveAt.IsZero() || solve.SolvedAt.Before(stats.FirstSolveAt) {
			stats.FirstSolveAt = solve.SolvedAt
		}
		if solve.SolvedAt.After(stats.LastSolveAt) {
			stats.LastSolveAt = solve.SolvedAt
		}
	}
	stats.ReviewCount, stats.AverageRating = s.reviewStatsLocked(taskID)
	return stats, nil
}

// Count returns the number of registered teams.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}
