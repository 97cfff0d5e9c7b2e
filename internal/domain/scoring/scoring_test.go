package scoring_test

import (
	"testing"
	"time"

	scoring "github.com/okian/arena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStaticScheme(t *testing.T) {
	Convey("Given a static reward of 300 points", t, func() {
		scheme := scoring.Static(300)

		Convey("Then the value ignores the solve count", func() {
			So(scheme.Value(0), ShouldEqual, 300)
			So(scheme.Value(1), ShouldEqual, 300)
			So(scheme.Value(500), ShouldEqual, 300)
		})
	})
}

func TestDynamicScheme(t *testing.T) {
	Convey("Given a dynamic reward of 500 decaying by 50 to a floor of 100", t, func() {
		scheme := scoring.Dynamic(500, 50, 100)

		Convey("Then the value decays linearly per prior solve", func() {
			So(scheme.Value(0), ShouldEqual, 500)
			So(scheme.Value(1), ShouldEqual, 450)
			So(scheme.Value(4), ShouldEqual, 300)
		})

		Convey("And the value never drops below the floor", func() {
			So(scheme.Value(8), ShouldEqual, 100)
			So(scheme.Value(9), ShouldEqual, 100)
			So(scheme.Value(1000), ShouldEqual, 100)
		})
	})

	Convey("Given a dynamic reward with a zero step", t, func() {
		scheme := scoring.Dynamic(200, 0, 50)

		Convey("Then the value stays at the initial worth", func() {
			So(scheme.Value(0), ShouldEqual, 200)
			So(scheme.Value(100), ShouldEqual, 200)
		})
	})
}

func TestRankLess(t *testing.T) {
	Convey("Given the ranking comparator", t, func() {
		early := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		late := early.Add(time.Hour)

		Convey("Then a higher score ranks first", func() {
			So(scoring.RankLess(200, early, "a", 100, early, "b"), ShouldBeTrue)
			So(scoring.RankLess(100, early, "a", 200, early, "b"), ShouldBeFalse)
		})

		Convey("And on equal scores the earlier last solve ranks first", func() {
			So(scoring.RankLess(100, early, "a", 100, late, "b"), ShouldBeTrue)
			So(scoring.RankLess(100, late, "a", 100, early, "b"), ShouldBeFalse)
		})

		Convey("And a team that never solved ranks after one that did", func() {
			So(scoring.RankLess(0, early, "a", 0, time.Time{}, "b"), ShouldBeTrue)
			So(scoring.RankLess(0, time.Time{}, "a", 0, early, "b"), ShouldBeFalse)
		})

		Convey("And fully tied teams order by id for determinism", func() {
			So(scoring.RankLess(100, early, "a", 100, early, "b"), ShouldBeTrue)
			So(scoring.RankLess(100, early, "b", 100, early, "a"), ShouldBeFalse)
		})
	})
}
