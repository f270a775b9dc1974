package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then its collectors are registered there", func() {
				So(manager, ShouldNotBeNil)
				manager.searchRequests.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("client"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.searchRequests.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_client_search_requests_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering the same manager twice on one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording backend results", func() {
			before := testutil.ToFloat64(globalManager.backendFailures.WithLabelValues("player", "timeout"))
			RecordBackendAttempt("player", 12)
			RecordBackendRetry("player")
			RecordBackendResult("player", "timeout")
			RecordBackendResult("player", "")

			Convey("Then failures are counted by kind", func() {
				after := testutil.ToFloat64(globalManager.backendFailures.WithLabelValues("player", "timeout"))
				So(after-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.backendRequests.WithLabelValues("player", "ok")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording router and search activity", func() {
			before := testutil.ToFloat64(globalManager.staleDiscarded.WithLabelValues("router"))
			RecordNavigation("home", "rendered", 30)
			RecordStaleDiscarded("router")
			RecordSearchRequest()
			RecordSearchSkipped()

			Convey("Then the stale counter moves", func() {
				So(testutil.ToFloat64(globalManager.staleDiscarded.WithLabelValues("router"))-before, ShouldEqual, 1)
			})
		})

		Convey("When recording server, crawl and system metrics", func() {
			So(func() {
				RecordHTTPRequest("page", "GET", "200", 4)
				RecordHTTPError("page", "GET", "server_error", "high")
				RecordCrawlCheck("games_played", true)
				RecordCrawlCheck("games_played", false)
				RecordBackendShared()
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When asking for the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
