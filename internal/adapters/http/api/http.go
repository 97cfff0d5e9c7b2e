// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/arena/internal/adapters/mq/fanout"
	repository "github.com/okian/arena/internal/adapters/repository"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/events"
	"github.com/okian/arena/internal/domain/model"
)

// timeFormat is the wire format for timestamps.
const timeFormat = time.RFC3339

// Read shapes shared with the application layer.
type (
	// Standing mirrors one leaderboard row.
	Standing = repository.Standing
	// TaskView mirrors the per-viewer task shape.
	TaskView = service.TaskView
	// ContestView mirrors the contest descriptor.
	ContestView = service.ContestView
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Commands
	Submit(ctx context.Context, teamID, taskID, answer string) (*model.Solve, error)
	SubmitReview(ctx context.Context, teamID, taskID string, rating int, comment string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	SetContestWindow(ctx context.Context, startsAt, endsAt time.Time) error
	CreateTeam(ctx context.Context, team *model.Team) error
	DisqualifyTeam(ctx context.Context, teamID string) error
	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, taskID, description string, hints []string) (*model.Task, error)
	OpenTask(ctx context.Context, taskID string) (*model.Task, error)
	CloseTask(ctx context.Context, taskID string) (*model.Task, error)
	CreateCategory(ctx context.Context, title, description string) (*model.TaskCategory, error)
	UpdateCategory(ctx context.Context, id, title, description string) (*model.TaskCategory, error)
	RemoveCategory(ctx context.Context, id string) error

	// Queries
	Contest(ctx context.Context) ContestView
	Tasks(ctx context.Context, viewerTeamID string) []TaskView
	TaskStats(ctx context.Context, taskID string) (model.TaskStats, error)
	Teams(ctx context.Context) []model.Team
	Categories(ctx context.Context) []model.TaskCategory
	Leaderboard(ctx context.Context, limit int) ([]Standing, error)

	// Live stream
	Subscribe(ctx context.Context, scope events.Scope, teamID string) (*fanout.Subscriber, error)
	Unsubscribe(ctx context.Context, id string)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	contestHandler     *ContestHandler
	taskHandler        *TaskHandler
	teamHandler        *TeamHandler
	submissionHandler  *SubmissionHandler
	reviewHandler      *ReviewHandler
	categoryHandler    *CategoryHandler
	leaderboardHandler *LeaderboardHandler
	streamHandler      *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		contestHandler:     NewContestHandler(deps),
		taskHandler:        NewTaskHandler(deps),
		teamHandler:        NewTeamHandler(deps),
		submissionHandler:  NewSubmissionHandler(deps),
		reviewHandler:      NewReviewHandler(deps),
		categoryHandler:    NewCategoryHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		streamHandler:      NewStreamHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/contest/pause", MetricsMiddleware(s.contestHandler.HandlePause, "contest_pause"))
	mux.HandleFunc("/api/contest/resume", MetricsMiddleware(s.contestHandler.HandleResume, "contest_resume"))
	mux.HandleFunc("/api/contest/window", MetricsMiddleware(s.contestHandler.HandleSetWindow, "contest_window"))
	mux.HandleFunc("/api/contest", MetricsMiddleware(s.contestHandler.HandleGetContest, "contest"))
	mux.HandleFunc("/api/submissions", MetricsMiddleware(s.submissionHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/api/reviews", MetricsMiddleware(s.reviewHandler.HandlePostReview, "reviews"))
	mux.HandleFunc("/api/tasks/", MetricsMiddleware(s.taskHandler.HandleTaskAction, "task_action"))
	mux.HandleFunc("/api/tasks", MetricsMiddleware(s.taskHandler.HandleTasks, "tasks"))
	mux.HandleFunc("/api/teams/", MetricsMiddleware(s.teamHandler.HandleTeamAction, "team_action"))
	mux.HandleFunc("/api/teams", MetricsMiddleware(s.teamHandler.HandleTeams, "teams"))
	mux.HandleFunc("/api/categories/", MetricsMiddleware(s.categoryHandler.HandleCategoryByID, "category"))
	mux.HandleFunc("/api/categories", MetricsMiddleware(s.categoryHandler.HandleCategories, "categories"))
	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/stream", s.streamHandler.HandleStream)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKind translates a sentinel rejection to its HTTP shape.
func writeKind(w http.ResponseWriter, err error) {
	status, code := kindOf(err)
	writeError(w, status, code, err)
}
