package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	_ = g.Write(&m)
	return m.GetGauge().GetValue()
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And metric names carry the namespace", func() {
				manager.submissionsSaved.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_board_submissions_saved_total")
			})
		})

		Convey("When options carry zero values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "wecruit")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording domain metrics", func() {
			before := counterValue(current().submissionsSaved)
			RecordSubmissionSaved()
			RecordSubmissionSaved()

			Convey("Then counters advance", func() {
				So(counterValue(current().submissionsSaved), ShouldEqual, before+2)
			})

			Convey("And the remaining recorders do not panic", func() {
				So(func() {
					RecordBoardRecompute("board", 1.5, 10)
					RecordAggregateLatency(0.2)
					RecordAggregateComputed(4)
					RecordSubmissionDeleted()
					RecordStrengthRejected()
					RecordBookmarkChange("add")
					RecordFanout(3, 12, false)
					RecordFanout(2, 5, true)
					RecordStoreOperation("memory", "get_recruit", 0.01)
					RecordStoreError("sqlite", "put_submission")
					UpdateStoreRecords("memory", "submissions", 7)
					RecordCacheHit()
					RecordCacheMiss()
					RecordCacheError()
					UpdateTotalRecruits(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/recruits", "GET", "200")
				RecordHTTPRequestDuration("/recruits", "GET", "200", 3.2)
				RecordErrorByEndpoint("/recruits/{id}", "GET", "client_error")
				RecordErrorByType("client_error", "warning")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			Convey("Then the total recruits gauge holds the last value", func() {
				UpdateTotalRecruits(9)
				So(gaugeValue(current().totalRecruits), ShouldEqual, 9)
			})
		})

		Convey("When reading the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		previous := current()
		Reset(func() { global.Store(previous) })

		m := Configure(WithNamespace("scouting"), WithRefreshInterval(time.Second))

		Convey("Then recorders write to its registry", func() {
			So(current(), ShouldEqual, m)
			So(GetRegistry(), ShouldNotEqual, previous.gatherer)
			RecordSubmissionSaved()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "scouting_board_submissions_saved_total")
			So(m.RefreshInterval(), ShouldEqual, time.Second)
		})

		Convey("When recording is disabled", func() {
			m := Configure(WithMetricsEnabled(false))
			RecordSubmissionSaved()

			Convey("Then nothing is recorded", func() {
				So(counterValue(m.submissionsSaved), ShouldEqual, 0)
			})
		})
	})
}
