// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/arena/internal/domain/model"
)

// TeamDependencies defines the interface for team administration.
type TeamDependencies interface {
	CreateTeam(ctx context.Context, team *model.Team) error
	DisqualifyTeam(ctx context.Context, teamID string) error
	Teams(ctx context.Context) []model.Team
}

// TeamHandler handles team administration requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// teamRequest mirrors the schema for POST /api/teams.
type teamRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
	Qualified      bool   `json:"qualified"`
}

type teamResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Qualified    bool   `json:"qualified"`
	Disqualified bool   `json:"disqualified"`
}

// HandleTeams handles GET /api/teams and POST /api/teams requests.
func (h *TeamHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.teams"
	switch r.Method {
	case http.MethodGet:
		teams := h.deps.Teams(r.Context())
		out := make([]teamResponse, 0, len(teams))
		for _, t := range teams {
			out = append(out, teamResponse{
				ID:           t.ID,
				Name:         t.Name,
				Qualified:    t.Qualified,
				Disqualified: t.Disqualified,
			})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req teamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		team := &model.Team{
			Name:           req.Name,
			Email:          req.Email,
			EmailConfirmed: req.EmailConfirmed,
			Qualified:      req.Qualified,
		}
		if err := h.deps.CreateTeam(r.Context(), team); err != nil {
			writeKind(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": team.ID})
	default:
		http.NotFound(w, r)
	}
}

// HandleTeamAction handles POST /api/teams/{id}/disqualify requests.
func (h *TeamHandler) HandleTeamAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/teams/")
	teamID, action, _ := strings.Cut(rest, "/")
	if teamID == "" || action != "disqualify" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.DisqualifyTeam(r.Context(), teamID); err != nil {
		writeKind(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": teamID})
}
