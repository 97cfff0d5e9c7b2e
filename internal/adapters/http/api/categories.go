// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/arena/internal/domain/model"
)

// CategoryDependencies defines the interface for task category CRUD.
type CategoryDependencies interface {
	CreateCategory(ctx context.Context, title, description string) (*model.TaskCategory, error)
	UpdateCategory(ctx context.Context, id, title, description string) (*model.TaskCategory, error)
	RemoveCategory(ctx context.Context, id string) error
	Categories(ctx context.Context) []model.TaskCategory
}

// CategoryHandler handles task category requests.
type CategoryHandler struct {
	deps CategoryDependencies
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(deps CategoryDependencies) *CategoryHandler {
	return &CategoryHandler{deps: deps}
}

// categoryRequest mirrors the schema for category writes.
type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// HandleCategories handles GET /api/categories and POST /api/categories.
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	const op = "api.categories"
	switch r.Method {
	case http.MethodGet:
		categories := h.deps.Categories(r.Context())
		out := make([]categoryResponse, 0, len(categories))
		for _, c := range categories {
			out = append(out, categoryResponse{ID: c.ID, Title: c.Title, Description: c.Description})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		category, err := h.deps.CreateCategory(r.Context(), req.Title, req.Description)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Title: category.Title, Description: category.Description})
	default:
		http.NotFound(w, r)
	}
}

// HandleCategoryByID handles PUT /api/categories/{id} and DELETE
// /api/categories/{id} requests.
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.category"
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		category, err := h.deps.UpdateCategory(r.Context(), id, req.Title, req.Description)
		if err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, categoryResponse{ID: category.ID, Title: category.Title, Description: category.Description})
	case http.MethodDelete:
		if err := h.deps.RemoveCategory(r.Context(), id); err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	default:
		http.NotFound(w, r)
	}
}
