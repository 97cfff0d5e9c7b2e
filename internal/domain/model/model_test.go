package model_test

import (
	"testing"
	"time"

	model "github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTaskCheckAnswer(t *testing.T) {
	Convey("Given a case-insensitive task with two accepted answers", t, func() {
		task := model.Task{
			Answers: []string{"flag{Alpha}", "flag{beta}"},
			Reward:  scoring.Static(100),
		}

		Convey("Then exact and case-folded matches are accepted", func() {
			So(task.CheckAnswer("flag{Alpha}"), ShouldBeTrue)
			So(task.CheckAnswer("FLAG{ALPHA}"), ShouldBeTrue)
			So(task.CheckAnswer("flag{beta}"), ShouldBeTrue)
		})

		Convey("And surrounding whitespace is ignored", func() {
			So(task.CheckAnswer("  flag{alpha}\n"), ShouldBeTrue)
		})

		Convey("And partial or wrong answers are rejected", func() {
			So(task.CheckAnswer("flag{alph}"), ShouldBeFalse)
			So(task.CheckAnswer(""), ShouldBeFalse)
			So(task.CheckAnswer("flag{Alpha} extra"), ShouldBeFalse)
		})
	})

	Convey("Given a case-sensitive task", t, func() {
		task := model.Task{
			Answers:       []string{"Sup3rSecret"},
			CaseSensitive: true,
		}

		Convey("Then the case must match exactly", func() {
			So(task.CheckAnswer("Sup3rSecret"), ShouldBeTrue)
			So(task.CheckAnswer("sup3rsecret"), ShouldBeFalse)
		})

		Convey("And whitespace is still trimmed", func() {
			So(task.CheckAnswer(" Sup3rSecret "), ShouldBeTrue)
		})
	})
}

func TestTaskLifecycleFlags(t *testing.T) {
	Convey("Given a task through its lifecycle", t, func() {
		now := time.Now()
		task := model.Task{}

		Convey("Then a fresh task is neither opened nor closed", func() {
			So(task.IsOpened(), ShouldBeFalse)
			So(task.IsClosed(), ShouldBeFalse)
		})

		Convey("When the task opens", func() {
			task.Opened = true
			task.OpenedAt = now

			So(task.IsOpened(), ShouldBeTrue)
			So(task.IsClosed(), ShouldBeFalse)
		})

		Convey("When the task closes", func() {
			task.Opened = false
			task.ClosedAt = now

			So(task.IsOpened(), ShouldBeFalse)
			So(task.IsClosed(), ShouldBeTrue)
		})
	})
}
