package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording submission pipeline metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					RecordSubmissionProcessed()
					RecordSubmissionRejected("ContestPaused")
					RecordWrongAnswer()
					RecordSolve()
					RecordReview()
					RecordSubmissionLatency(12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording contest state metrics", func() {
			Convey("Then it should update gauges without panicking", func() {
				So(func() {
					UpdateContestState(1)
					UpdateOpenTasks(5)
					UpdateTeamsRanked(42)
					RecordScoreRebuild(3.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording bus metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					RecordBusPublish()
					RecordBusPublishError()
					UpdateBusSize(10)
					UpdateBusCapacity(1000)
					UpdateBusUtilization(0.01)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording fan-out metrics", func() {
			Convey("Then it should record per-scope without panicking", func() {
				So(func() {
					UpdateSubscribers("teams", 3)
					RecordEventDelivered("supervisors")
					RecordEventDropped("guests")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					RecordHTTPRequest("submissions", "POST", "200")
					RecordHTTPRequestDuration("submissions", "POST", "200", 8.0)
					RecordErrorByComponent("bus", "closed")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should record without panicking", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(99)
					RecordSystemGCPauseTime(0.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should not be nil and should gather metric families", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
