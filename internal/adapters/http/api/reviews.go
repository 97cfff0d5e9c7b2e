// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// ReviewDependencies defines the interface for post-solve reviews.
type ReviewDependencies interface {
	SubmitReview(ctx context.Context, teamID, taskID string, rating int, comment string) error
}

// ReviewHandler handles post-solve review requests.
type ReviewHandler struct {
	deps ReviewDependencies
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(deps ReviewDependencies) *ReviewHandler {
	return &ReviewHandler{deps: deps}
}

// reviewRequest mirrors the schema for POST /api/reviews.
type reviewRequest struct {
	TeamID  string `json:"team_id"`
	TaskID  string `json:"task_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r reviewRequest) validate() error {
	switch {
	case strings.TrimSpace(r.TeamID) == "":
		return NewKind("api.post_review", ErrBadRequest)
	case strings.TrimSpace(r.TaskID) == "":
		return NewKind("api.post_review", ErrBadRequest)
	}
	return nil
}

// HandlePostReview handles POST /api/reviews requests.
func (h *ReviewHandler) HandlePostReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_review"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SubmitReview(r.Context(), req.TeamID, req.TaskID, req.Rating, req.Comment); err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}
