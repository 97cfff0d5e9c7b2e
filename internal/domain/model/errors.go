package model

import "errors"

// Sentinel kinds for contest-state gate failures.
var (
	ErrContestNotInitialized = errors.New("contest not initialized")
	ErrContestNotStarted     = errors.New("contest has not started yet")
	ErrContestPaused         = errors.New("contest has been paused")
	ErrContestNotPaused      = errors.New("contest is not paused")
	ErrContestFinished       = errors.New("contest has finished")
)

// Sentinel kinds for task-lifecycle violations.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskAlreadyOpened  = errors.New("task has been already opened")
	ErrTaskAlreadyClosed  = errors.New("task has been already closed")
	ErrTaskNotOpened      = errors.New("task is not opened now")
	ErrTaskClosed         = errors.New("task has been closed")
	ErrTaskNotAvailable   = errors.New("task is not available")
	ErrDuplicateTaskTitle = errors.New("task title should be unique")
)

// Sentinel kinds for submission outcomes. Wrong answer, already solved and
// the attempts limit are expected results of normal play, not system faults;
// callers must be able to tell them apart by kind.
var (
	ErrTaskAlreadySolved       = errors.New("task has been already solved by your team")
	ErrWrongTaskAnswer         = errors.New("wrong answer")
	ErrTaskSubmitAttemptsLimit = errors.New("too many submit attempts")
)

// Sentinel kinds for review-ledger violations.
var (
	ErrTaskReviewNotEligible  = errors.New("your team has not solved the task yet")
	ErrTaskReviewAlreadyGiven = errors.New("your team has already given a review")
)

// Sentinel kinds for team-eligibility failures.
var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNotQualified  = errors.New("team has not qualified for the event")
	ErrEmailNotConfirmed = errors.New("confirm your email before submitting an answer")
)

// Sentinel kinds for reference-data integrity.
var (
	ErrCategoryNotFound       = errors.New("category not found")
	ErrDuplicateCategoryTitle = errors.New("category title should be unique")
	ErrCategoryAttached       = errors.New("category is attached to one or more tasks")
)

// ErrInternal covers unexpected persistence or infrastructure faults.
var ErrInternal = errors.New("internal error")
