// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/arena/internal/domain/model"
)

// SubmissionDependencies defines the interface for answer submission.
type SubmissionDependencies interface {
	Submit(ctx context.Context, teamID, taskID, answer string) (*model.Solve, error)
}

// SubmissionHandler handles answer submissions.
type SubmissionHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(deps SubmissionDependencies) *SubmissionHandler {
	return &SubmissionHandler{deps: deps}
}

// submissionRequest mirrors the schema for POST /api/submissions.
type submissionRequest struct {
	TeamID string `json:"team_id"`
	TaskID string `json:"task_id"`
	Answer string `json:"answer"`
}

func (s submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.TeamID) == "":
		return NewKind("api.post_submission", ErrBadRequest)
	case strings.TrimSpace(s.TaskID) == "":
		return NewKind("api.post_submission", ErrBadRequest)
	case strings.TrimSpace(s.Answer) == "":
		return NewKind("api.post_submission", ErrBadRequest)
	}
	return nil
}

type solveResponse struct {
	TeamID   string    `json:"team_id"`
	TaskID   string    `json:"task_id"`
	Points   int       `json:"points"`
	SolvedAt time.Time `json:"solved_at"`
}

// HandlePostSubmission handles POST /api/submissions requests.
func (h *SubmissionHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	solve, err := h.deps.Submit(r.Context(), req.TeamID, req.TaskID, req.Answer)
	if err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, solveResponse{
		TeamID:   solve.TeamID,
		TaskID:   solve.TaskID,
		Points:   solve.Points,
		SolvedAt: solve.SolvedAt,
	})
}
