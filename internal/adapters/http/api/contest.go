// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ContestDependencies defines the interface for contest clock operations.
type ContestDependencies interface {
	Contest(ctx context.Context) ContestView
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	SetContestWindow(ctx context.Context, startsAt, endsAt time.Time) error
}

// ContestHandler handles contest clock requests.
type ContestHandler struct {
	deps ContestDependencies
}

// NewContestHandler creates a new contest handler.
func NewContestHandler(deps ContestDependencies) *ContestHandler {
	return &ContestHandler{deps: deps}
}

// HandleGetContest handles GET /api/contest requests.
func (h *ContestHandler) HandleGetContest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Contest(r.Context()))
}

// HandlePause handles POST /api/contest/pause requests.
func (h *ContestHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Pause(r.Context()); err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Contest(r.Context()))
}

// HandleResume handles POST /api/contest/resume requests.
func (h *ContestHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Resume(r.Context()); err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Contest(r.Context()))
}

// windowRequest mirrors the schema for POST /api/contest/window.
type windowRequest struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// HandleSetWindow handles POST /api/contest/window requests.
func (h *ContestHandler) HandleSetWindow(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_contest_window"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	startsAt, err := parseBound(req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	endsAt, err := parseBound(req.EndsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.deps.SetContestWindow(r.Context(), startsAt, endsAt); err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Contest(r.Context()))
}

// parseBound reads an RFC3339 bound; empty means unset.
func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
