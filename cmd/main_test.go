package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/http/api"
	app "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("ARENA_ADDR", ":8080")
			_ = os.Setenv("ARENA_ATTEMPT_LIMIT", "3")
			_ = os.Setenv("ARENA_BUS_CAPACITY", "1000")
			defer func() {
				_ = os.Unsetenv("ARENA_ADDR")
				_ = os.Unsetenv("ARENA_ATTEMPT_LIMIT")
				_ = os.Unsetenv("ARENA_BUS_CAPACITY")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.AttemptLimit, convey.ShouldEqual, 3)
				convey.So(cfg.BusCapacity, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithAttemptLimit(3),
					app.WithAttemptWindow(30*time.Second),
					app.WithBusCapacity(2000),
					app.WithSubscriberBuffer(16),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc, 100)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSystemMetricsUpdate(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When updating system metrics once", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
