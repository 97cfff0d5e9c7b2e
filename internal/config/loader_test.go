package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.AttemptLimit, convey.ShouldEqual, 5)
				convey.So(cfg.AttemptWindowSec, convey.ShouldEqual, 60)
				convey.So(cfg.BusCapacity, convey.ShouldEqual, 10_000)
				convey.So(cfg.SubscriberBuffer, convey.ShouldEqual, 64)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
				convey.So(cfg.RequireQualified, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ARENA_ADDR", ":8080")
			_ = os.Setenv("ARENA_ATTEMPT_LIMIT", "3")
			_ = os.Setenv("ARENA_BUS_CAPACITY", "5000")
			_ = os.Setenv("ARENA_SUBSCRIBER_BUFFER", "128")
			_ = os.Setenv("ARENA_REQUIRE_QUALIFIED", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.AttemptLimit, convey.ShouldEqual, 3)
				convey.So(cfg.BusCapacity, convey.ShouldEqual, 5000)
				convey.So(cfg.SubscriberBuffer, convey.ShouldEqual, 128)
				convey.So(cfg.RequireQualified, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()

			tmp, err := os.CreateTemp(t.TempDir(), "arena-*.yaml")
			convey.So(err, convey.ShouldBeNil)
			_, err = tmp.WriteString("addr: \":7070\"\nattempt_limit: 10\ncontest_starts_at: \"2026-09-01T10:00:00Z\"\ncontest_ends_at: \"2026-09-02T10:00:00Z\"\n")
			convey.So(err, convey.ShouldBeNil)
			convey.So(tmp.Close(), convey.ShouldBeNil)

			_ = os.Setenv("ARENA_CONFIG", tmp.Name())
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should apply file values over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.AttemptLimit, convey.ShouldEqual, 10)

				start, end, werr := cfg.ContestWindow()
				convey.So(werr, convey.ShouldBeNil)
				convey.So(start.IsZero(), convey.ShouldBeFalse)
				convey.So(end.After(start), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the contest window is inverted", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ARENA_CONTEST_STARTS_AT", "2026-09-02T10:00:00Z")
			_ = os.Setenv("ARENA_CONTEST_ENDS_AT", "2026-09-01T10:00:00Z")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a contest bound is malformed", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ARENA_CONTEST_STARTS_AT", "not-a-time")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"ARENA_CONFIG",
		"ARENA_ADDR",
		"ARENA_LOG_LEVEL",
		"ARENA_ATTEMPT_LIMIT",
		"ARENA_ATTEMPT_WINDOW_SEC",
		"ARENA_BUS_CAPACITY",
		"ARENA_SUBSCRIBER_BUFFER",
		"ARENA_MAX_LEADERBOARD_LIMIT",
		"ARENA_REQUIRE_QUALIFIED",
		"ARENA_REQUIRE_EMAIL_CONFIRMED",
		"ARENA_CONTEST_STARTS_AT",
		"ARENA_CONTEST_ENDS_AT",
	} {
		_ = os.Unsetenv(key)
	}
}
