package contest_test

import (
	"testing"
	"time"

	contest "github.com/okian/arena/internal/domain/contest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestContestClock(t *testing.T) {
	Convey("Given a contest window", t, func() {
		startsAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		endsAt := startsAt.Add(8 * time.Hour)
		c := contest.Contest{StartsAt: startsAt, EndsAt: endsAt}

		Convey("Then the clock is not started before the window", func() {
			So(c.StateAt(startsAt.Add(-time.Minute)), ShouldEqual, contest.NotStarted)
		})

		Convey("And the clock runs inside the window", func() {
			So(c.StateAt(startsAt), ShouldEqual, contest.Running)
			So(c.StateAt(endsAt.Add(-time.Second)), ShouldEqual, contest.Running)
		})

		Convey("And the clock is finished at and beyond the end", func() {
			So(c.StateAt(endsAt), ShouldEqual, contest.Finished)
			So(c.StateAt(endsAt.Add(time.Hour)), ShouldEqual, contest.Finished)
		})

		Convey("When the pause flag is set", func() {
			c.Paused = true

			Convey("Then the clock reads paused only inside the window", func() {
				So(c.StateAt(startsAt.Add(time.Hour)), ShouldEqual, contest.Paused)
				So(c.StateAt(startsAt.Add(-time.Minute)), ShouldEqual, contest.NotStarted)
			})

			Convey("And the finished state wins over the pause flag", func() {
				So(c.StateAt(endsAt.Add(time.Second)), ShouldEqual, contest.Finished)
			})
		})
	})

	Convey("Given a contest without a configured start", t, func() {
		var c contest.Contest

		Convey("Then the clock never leaves not started", func() {
			So(c.StateAt(time.Now()), ShouldEqual, contest.NotStarted)
		})
	})

	Convey("Given the state names", t, func() {
		Convey("Then they match the wire contract", func() {
			So(contest.NotStarted.String(), ShouldEqual, "notStarted")
			So(contest.Running.String(), ShouldEqual, "running")
			So(contest.Paused.String(), ShouldEqual, "paused")
			So(contest.Finished.String(), ShouldEqual, "finished")
		})
	})
}
