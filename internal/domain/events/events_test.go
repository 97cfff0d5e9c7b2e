package events_test

import (
	"testing"
	"time"

	contest "github.com/okian/arena/internal/domain/contest"
	events "github.com/okian/arena/internal/domain/events"
	model "github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScopes(t *testing.T) {
	Convey("Given the audience scopes", t, func() {
		Convey("Then the three known scopes validate", func() {
			So(events.ScopeSupervisors.Valid(), ShouldBeTrue)
			So(events.ScopeTeams.Valid(), ShouldBeTrue)
			So(events.ScopeGuests.Valid(), ShouldBeTrue)
		})

		Convey("And anything else does not", func() {
			So(events.Scope("admins").Valid(), ShouldBeFalse)
			So(events.Scope("").Valid(), ShouldBeFalse)
		})
	})
}

func TestTaskSolvedProjections(t *testing.T) {
	Convey("Given a solve announced to all audiences", t, func() {
		task := &model.Task{
			ID:          "task-1",
			Title:       "Heap",
			Description: "pwn the allocator",
			Answers:     []string{"flag{secret}"},
			Reward:      scoring.Dynamic(500, 50, 100),
			Opened:      true,
		}
		solve := model.Solve{
			TeamID:   "team-1",
			TaskID:   "task-1",
			SolvedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
			Points:   450,
		}

		event := events.NewTaskSolved(solve, "Alpha", task, 400, 3)

		Convey("Then supervisors see the solver identity and frozen points", func() {
			p := event.Projection(events.ScopeSupervisors)
			So(p, ShouldNotBeNil)
			So(p["teamId"], ShouldEqual, "team-1")
			So(p["teamName"], ShouldEqual, "Alpha")
			So(p["points"], ShouldEqual, 450)
			So(p["solves"], ShouldEqual, 3)
		})

		Convey("And teams and guests see only the public aggregate", func() {
			for _, scope := range []events.Scope{events.ScopeTeams, events.ScopeGuests} {
				p := event.Projection(scope)
				So(p, ShouldNotBeNil)
				So(p["taskId"], ShouldEqual, "task-1")
				So(p["value"], ShouldEqual, 400)
				So(p["teamId"], ShouldBeNil)
				So(p["teamName"], ShouldBeNil)
				So(p["points"], ShouldBeNil)
			}
		})

		Convey("And no projection ever carries answer material", func() {
			for _, scope := range []events.Scope{events.ScopeSupervisors, events.ScopeTeams, events.ScopeGuests} {
				p := event.Projection(scope)
				So(p["answers"], ShouldBeNil)
			}
		})

		Convey("And the event carries an id and a timestamp", func() {
			So(event.ID, ShouldNotBeEmpty)
			So(event.CreatedAt.IsZero(), ShouldBeFalse)
		})
	})
}

func TestTaskOpenedProjections(t *testing.T) {
	Convey("Given a task opening announcement", t, func() {
		task := &model.Task{
			ID:          "task-1",
			Title:       "Web 100",
			Description: "find the admin panel",
			Answers:     []string{"flag{web}"},
			Reward:      scoring.Static(100),
			Opened:      true,
		}

		event := events.NewTaskOpened(task, 100, 0)

		Convey("Then supervisors get the description", func() {
			p := event.Projection(events.ScopeSupervisors)
			So(p["description"], ShouldEqual, "find the admin panel")
			So(p["answers"], ShouldBeNil)
		})

		Convey("And the public preview omits it", func() {
			p := event.Projection(events.ScopeTeams)
			So(p["description"], ShouldBeNil)
			So(p["title"], ShouldEqual, "Web 100")
			So(p["value"], ShouldEqual, 100)
		})
	})
}

func TestTaskUpdatedProjections(t *testing.T) {
	Convey("Given a task with updated solver material", t, func() {
		task := &model.Task{
			ID:          "task-1",
			Title:       "Crypto 200",
			Description: "rotated description",
			Hints:       []string{"look at the exponent"},
			Answers:     []string{"flag{rsa}"},
			Reward:      scoring.Static(200),
		}

		Convey("When the task has not been opened yet", func() {
			event := events.NewTaskUpdated(task, 200, 0)

			Convey("Then only supervisors are addressed", func() {
				p := event.Projection(events.ScopeSupervisors)
				So(p, ShouldNotBeNil)
				So(p["description"], ShouldEqual, "rotated description")
				So(p["hints"], ShouldResemble, []string{"look at the exponent"})
				So(event.Projection(events.ScopeTeams), ShouldBeNil)
				So(event.Projection(events.ScopeGuests), ShouldBeNil)
			})
		})

		Convey("When the task is opened", func() {
			task.Opened = true
			event := events.NewTaskUpdated(task, 200, 0)

			Convey("Then the public preview omits the solver material", func() {
				for _, scope := range []events.Scope{events.ScopeTeams, events.ScopeGuests} {
					p := event.Projection(scope)
					So(p, ShouldNotBeNil)
					So(p["title"], ShouldEqual, "Crypto 200")
					So(p["description"], ShouldBeNil)
					So(p["hints"], ShouldBeNil)
				}
			})
		})
	})
}

func TestContestAndCategoryEvents(t *testing.T) {
	Convey("Given a contest pause announcement", t, func() {
		now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
		c := contest.Contest{
			StartsAt: now.Add(-time.Hour),
			EndsAt:   now.Add(time.Hour),
			Paused:   true,
		}

		event := events.NewContestUpdated(events.TypeContestPaused, c, now)

		Convey("Then every audience sees the same descriptor", func() {
			sup := event.Projection(events.ScopeSupervisors)
			So(sup["state"], ShouldEqual, "paused")
			So(event.Projection(events.ScopeTeams), ShouldResemble, sup)
			So(event.Projection(events.ScopeGuests), ShouldResemble, sup)
		})
	})

	Convey("Given a category removal announcement", t, func() {
		event := events.NewRemoveTaskCategory("cat-1")

		Convey("Then every audience sees the removed id", func() {
			So(event.Type, ShouldEqual, events.TypeRemoveTaskCategory)
			So(event.Projection(events.ScopeGuests)["id"], ShouldEqual, "cat-1")
		})
	})
}

func TestReviewEventVisibility(t *testing.T) {
	Convey("Given a review announcement", t, func() {
		review := model.TaskReview{
			TeamID:  "team-1",
			TaskID:  "task-1",
			Rating:  4,
			Comment: "clever",
		}

		event := events.NewReviewTask(review, 3, 4.2)

		Convey("Then only supervisors are addressed", func() {
			sup := event.Projection(events.ScopeSupervisors)
			So(sup, ShouldNotBeNil)
			So(sup["rating"], ShouldEqual, 4)
			So(sup["averageRating"], ShouldEqual, 4.2)
			So(event.Projection(events.ScopeTeams), ShouldBeNil)
			So(event.Projection(events.ScopeGuests), ShouldBeNil)
		})
	})
}
