package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/okian/arena/internal/adapters/repository"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrStreamUnsupported = errors.New("streaming unsupported by connection")
)

// NewKind tags a sentinel kind with the failing operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap annotates an upstream error with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// kindOf maps a rejection to its HTTP status and stable wire code. The
// codes are part of the API contract; clients branch on them.
func kindOf(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrContestNotInitialized):
		return http.StatusForbidden, "contest_not_initialized"
	case errors.Is(err, model.ErrContestNotStarted):
		return http.StatusForbidden, "contest_not_started"
	case errors.Is(err, model.ErrContestPaused):
		return http.StatusForbidden, "contest_paused"
	case errors.Is(err, model.ErrContestFinished):
		return http.StatusForbidden, "contest_finished"
	case errors.Is(err, model.ErrContestNotPaused):
		return http.StatusConflict, "contest_not_paused"

	case errors.Is(err, model.ErrTeamNotFound),
		errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrCategoryNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, model.ErrTeamNotQualified):
		return http.StatusForbidden, "team_not_qualified"
	case errors.Is(err, model.ErrEmailNotConfirmed):
		return http.StatusForbidden, "email_not_confirmed"

	case errors.Is(err, model.ErrWrongTaskAnswer):
		return http.StatusBadRequest, "wrong_answer"
	case errors.Is(err, model.ErrTaskAlreadySolved):
		return http.StatusConflict, "already_solved"
	case errors.Is(err, model.ErrTaskSubmitAttemptsLimit):
		return http.StatusTooManyRequests, "attempts_limit"

	case errors.Is(err, model.ErrTaskNotAvailable):
		return http.StatusForbidden, "task_not_available"
	case errors.Is(err, model.ErrTaskNotOpened):
		return http.StatusConflict, "task_not_opened"
	case errors.Is(err, model.ErrTaskClosed):
		return http.StatusConflict, "task_closed"
	case errors.Is(err, model.ErrTaskAlreadyOpened):
		return http.StatusConflict, "task_already_opened"
	case errors.Is(err, model.ErrTaskAlreadyClosed):
		return http.StatusConflict, "task_already_closed"

	case errors.Is(err, model.ErrTaskReviewNotEligible):
		return http.StatusForbidden, "review_not_eligible"
	case errors.Is(err, model.ErrTaskReviewAlreadyGiven):
		return http.StatusConflict, "review_already_given"

	case errors.Is(err, model.ErrDuplicateTaskTitle),
		errors.Is(err, model.ErrDuplicateCategoryTitle):
		return http.StatusConflict, "duplicate_title"
	case errors.Is(err, model.ErrCategoryAttached):
		return http.StatusConflict, "category_attached"

	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidTask),
		errors.Is(err, service.ErrInvalidTeam),
		errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
