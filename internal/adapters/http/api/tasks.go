// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
)

// TaskDependencies defines the interface for task lifecycle operations.
type TaskDependencies interface {
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, taskID, description string, hints []string) (*model.Task, error)
	OpenTask(ctx context.Context, taskID string) (*model.Task, error)
	CloseTask(ctx context.Context, taskID string) (*model.Task, error)
	Tasks(ctx context.Context, viewerTeamID string) []TaskView
	TaskStats(ctx context.Context, taskID string) (model.TaskStats, error)
}

// TaskHandler handles task listing and lifecycle requests.
type TaskHandler struct {
	deps TaskDependencies
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(deps TaskDependencies) *TaskHandler {
	return &TaskHandler{deps: deps}
}

// taskRequest mirrors the schema for POST /api/tasks. Exactly one of the
// value block's forms applies: a static value, or an initial/step/floor
// decay triple.
type taskRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Hints         []string `json:"hints"`
	CategoryID    string   `json:"category_id"`
	Answers       []string `json:"answers"`
	CaseSensitive bool     `json:"case_sensitive"`
	Value         int      `json:"value"`
	InitialValue  int      `json:"initial_value"`
	DecayStep     int      `json:"decay_step"`
	MinValue      int      `json:"min_value"`
}

func (t taskRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Title) == "":
		return NewKind("api.post_task", ErrBadRequest)
	case len(t.Answers) == 0:
		return NewKind("api.post_task", ErrBadRequest)
	case t.Value <= 0 && t.InitialValue <= 0:
		return NewKind("api.post_task", ErrBadRequest)
	}
	return nil
}

// reward builds the scoring scheme described by the request.
func (t taskRequest) reward() scoring.Scheme {
	if t.InitialValue > 0 {
		return scoring.Dynamic(t.InitialValue, t.DecayStep, t.MinValue)
	}
	return scoring.Static(t.Value)
}

// HandleTasks handles GET /api/tasks?team=ID and POST /api/tasks requests.
func (h *TaskHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	const op = "api.tasks"
	switch r.Method {
	case http.MethodGet:
		viewer := r.URL.Query().Get("team")
		writeJSON(w, http.StatusOK, h.deps.Tasks(r.Context(), viewer))
	case http.MethodPost:
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		task := &model.Task{
			Title:         req.Title,
			Description:   req.Description,
			Hints:         req.Hints,
			CategoryID:    req.CategoryID,
			Answers:       req.Answers,
			CaseSensitive: req.CaseSensitive,
			Reward:        req.reward(),
		}
		if err := h.deps.CreateTask(r.Context(), task); err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": task.ID})
	default:
		http.NotFound(w, r)
	}
}

// taskUpdateRequest mirrors the schema for PUT /api/tasks/{id}.
type taskUpdateRequest struct {
	Description string   `json:"description"`
	Hints       []string `json:"hints"`
}

// HandleTaskAction handles PUT /api/tasks/{id}, /api/tasks/{id}/open,
// /api/tasks/{id}/close and GET /api/tasks/{id}/stats requests.
func (h *TaskHandler) HandleTaskAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.task_action"
	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	taskID, action, _ := strings.Cut(rest, "/")
	if taskID == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPut:
		var req taskUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		task, err := h.deps.UpdateTask(r.Context(), taskID, req.Description, req.Hints)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": task.ID, "updated_at": task.UpdatedAt.Format(timeFormat)})
	case action == "open" && r.Method == http.MethodPost:
		task, err := h.deps.OpenTask(r.Context(), taskID)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": task.ID, "opened": task.Opened})
	case action == "close" && r.Method == http.MethodPost:
		task, err := h.deps.CloseTask(r.Context(), taskID)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": task.ID, "opened": task.Opened})
	case action == "stats" && r.Method == http.MethodGet:
		stats, err := h.deps.TaskStats(r.Context(), taskID)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, taskStatsResponse(stats))
	default:
		http.NotFound(w, r)
	}
}

type statsResponse struct {
	TaskID        string  `json:"task_id"`
	AttemptCount  int     `json:"attempt_count"`
	SolveCount    int     `json:"solve_count"`
	FirstSolveAt  string  `json:"first_solve_at,omitempty"`
	LastSolveAt   string  `json:"last_solve_at,omitempty"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

func taskStatsResponse(stats model.TaskStats) statsResponse {
	resp := statsResponse{
		TaskID:        stats.TaskID,
		AttemptCount:  stats.AttemptCount,
		SolveCount:    stats.SolveCount,
		ReviewCount:   stats.ReviewCount,
		AverageRating: stats.AverageRating,
	}
	if !stats.FirstSolveAt.IsZero() {
		resp.FirstSolveAt = stats.FirstSolveAt.Format(timeFormat)
	}
	if !stats.LastSolveAt.IsZero() {
		resp.LastSolveAt = stats.LastSolveAt.Format(timeFormat)
	}
	return resp
}
