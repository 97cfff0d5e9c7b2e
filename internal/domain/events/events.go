// Package events defines the realtime event taxonomy and the
// audience-partitioned payload builders.
//
// Every externally visible state transition becomes one Event carrying up
// to three projections, one per audience scope. Projections are computed
// once at build time so all subscribers in a scope observe byte-identical
// payloads; a nil projection means the scope is not addressed by the event.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/contest"
	"github.com/okian/arena/internal/domain/model"
)

// Scope identifies an audience group for fan-out.
type Scope string

// Audience scopes.
const (
	ScopeSupervisors Scope = "supervisors"
	ScopeTeams       Scope = "teams"
	ScopeGuests      Scope = "guests"
)

// Valid reports whether s is a known audience scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeSupervisors, ScopeTeams, ScopeGuests:
		return true
	default:
		return false
	}
}

// Type tags an event with its taxonomy name.
type Type string

// Event taxonomy.
const (
	TypeContestUpdated     Type = "contestUpdated"
	TypeContestPaused      Type = "contestPaused"
	TypeContestResumed     Type = "contestResumed"
	TypeContestFinished    Type = "contestFinished"
	TypeTaskOpened         Type = "taskOpened"
	TypeTaskUpdated        Type = "taskUpdated"
	TypeTaskClosed         Type = "taskClosed"
	TypeTaskSolved         Type = "taskSolved"
	TypeCreateTaskCategory Type = "createTaskCategory"
	TypeUpdateTaskCategory Type = "updateTaskCategory"
	TypeRemoveTaskCategory Type = "removeTaskCategory"
	TypeReviewTask         Type = "reviewTask"
)

// Payload is one audience projection of an event.
type Payload map[string]any

// Data carries the three audience projections of an event.
type Data struct {
	Supervisors Payload `json:"supervisors,omitempty"`
	Teams       Payload `json:"teams,omitempty"`
	Guests      Payload `json:"guests,omitempty"`
}

// Event is the wire unit of the fan-out channel. It is never persisted.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Data      Data      `json:"data"`
}

// Projection returns the payload addressed to the given scope, or nil.
func (e Event) Projection(scope Scope) Payload {
	switch scope {
	case ScopeSupervisors:
		return e.Data.Supervisors
	case ScopeTeams:
		return e.Data.Teams
	case ScopeGuests:
		return e.Data.Guests
	default:
		return nil
	}
}

func newEvent(t Type, data Data) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
}

// serializeContest builds the shared contest descriptor payload.
func serializeContest(c contest.Contest, now time.Time) Payload {
	return Payload{
		"state":    c.StateAt(now).String(),
		"startsAt": c.StartsAt.UnixMilli(),
		"endsAt":   c.EndsAt.UnixMilli(),
		"paused":   c.Paused,
	}
}

// serializeTaskPreview builds the public task payload. Answer material,
// descriptions and hints never appear here.
func serializeTaskPreview(t *model.Task, currentValue, solveCount int) Payload {
	return Payload{
		"id":         t.ID,
		"title":      t.Title,
		"categoryId": t.CategoryID,
		"value":      currentValue,
		"solves":     solveCount,
		"opened":     t.Opened,
	}
}

// serializeTaskFull builds the supervisor task payload. It carries solver
// material (description and hints) but never the accepted answers.
func serializeTaskFull(t *model.Task, currentValue, solveCount int) Payload {
	p := serializeTaskPreview(t, currentValue, solveCount)
	p["description"] = t.Description
	p["hints"] = append([]string(nil), t.Hints...)
	return p
}

func serializeCategory(c *model.TaskCategory) Payload {
	return Payload{
		"id":          c.ID,
		"title":       c.Title,
		"description": c.Description,
		"createdAt":   c.CreatedAt.UnixMilli(),
		"updatedAt":   c.UpdatedAt.UnixMilli(),
	}
}

// NewContestUpdated reports a contest clock transition to every audience.
// The type narrows to contestPaused/contestResumed/contestFinished at the
// transition edges so clients can render the change without diffing.
func NewContestUpdated(t Type, c contest.Contest, now time.Time) Event {
	p := serializeContest(c, now)
	return newEvent(t, Data{Supervisors: p, Teams: p, Guests: p})
}

// NewTaskOpened announces a task becoming available.
func NewTaskOpened(task *model.Task, currentValue, solveCount int) Event {
	preview := serializeTaskPreview(task, currentValue, solveCount)
	return newEvent(TypeTaskOpened, Data{
		Supervisors: serializeTaskFull(task, currentValue, solveCount),
		Teams:       preview,
		Guests:      preview,
	})
}

// NewTaskUpdated announces changed task material. Supervisors always see
// it; teams and guests only once the task is opened, so edits to unopened
// tasks never leak.
func NewTaskUpdated(task *model.Task, currentValue, solveCount int) Event {
	data := Data{Supervisors: serializeTaskFull(task, currentValue, solveCount)}
	if task.IsOpened() {
		preview := serializeTaskPreview(task, currentValue, solveCount)
		data.Teams = preview
		data.Guests = preview
	}
	return newEvent(TypeTaskUpdated, data)
}

// NewTaskClosed announces a task reaching its terminal closed state.
func NewTaskClosed(task *model.Task, currentValue, solveCount int) Event {
	preview := serializeTaskPreview(task, currentValue, solveCount)
	return newEvent(TypeTaskClosed, Data{
		Supervisors: serializeTaskFull(task, currentValue, solveCount),
		Teams:       preview,
		Guests:      preview,
	})
}

// NewTaskSolved announces a recorded solve. Supervisors see the solving
// team's identity and the frozen points; teams and guests only see the
// task's updated solve count and current value.
func NewTaskSolved(solve model.Solve, teamName string, task *model.Task, currentValue, solveCount int) Event {
	public := Payload{
		"taskId": solve.TaskID,
		"value":  currentValue,
		"solves": solveCount,
	}
	return newEvent(TypeTaskSolved, Data{
		Supervisors: Payload{
			"taskId":   solve.TaskID,
			"teamId":   solve.TeamID,
			"teamName": teamName,
			"points":   solve.Points,
			"solvedAt": solve.SolvedAt.UnixMilli(),
			"value":    currentValue,
			"solves":   solveCount,
		},
		Teams:  public,
		Guests: public,
	})
}

// NewCreateTaskCategory announces new reference data to every audience.
func NewCreateTaskCategory(c *model.TaskCategory) Event {
	p := serializeCategory(c)
	return newEvent(TypeCreateTaskCategory, Data{Supervisors: p, Teams: p, Guests: p})
}

// NewUpdateTaskCategory announces changed reference data to every audience.
func NewUpdateTaskCategory(c *model.TaskCategory) Event {
	p := serializeCategory(c)
	return newEvent(TypeUpdateTaskCategory, Data{Supervisors: p, Teams: p, Guests: p})
}

// NewRemoveTaskCategory announces removed reference data to every audience.
func NewRemoveTaskCategory(categoryID string) Event {
	p := Payload{"id": categoryID}
	return newEvent(TypeRemoveTaskCategory, Data{Supervisors: p, Teams: p, Guests: p})
}

// NewReviewTask surfaces a post-solve review to supervisors only.
func NewReviewTask(review model.TaskReview, reviewCount int, averageRating float64) Event {
	return newEvent(TypeReviewTask, Data{
		Supervisors: Payload{
			"taskId":        review.TaskID,
			"teamId":        review.TeamID,
			"rating":        review.Rating,
			"comment":       review.Comment,
			"reviewCount":   reviewCount,
			"averageRating": averageRating,
		},
	})
}
