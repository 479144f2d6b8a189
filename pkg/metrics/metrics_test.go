package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func family(reg *prometheus.Registry, name string) *dto.MetricFamily {
	mfs, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithRegistry(prometheus.NewRegistry()))

			Convey("Then defaults apply", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNames("test", "unit"),
				WithMetricPrefix("x_"),
				WithLatencyBuckets([]float64{1, 5, 10}),
				WithScoreBuckets([]float64{50, 100}),
				WithRefreshInterval(3*time.Second),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)
			manager.RecordRun(RunReady, 4)
			manager.RecordPairs([]float64{70}, false)

			Convey("Then names, labels and buckets follow the options", func() {
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
				mf := family(registry, "test_unit_x_runs_total")
				So(mf, ShouldNotBeNil)
				labels := mf.GetMetric()[0].GetLabel()
				names := map[string]string{}
				for _, l := range labels {
					names[l.GetName()] = l.GetValue()
				}
				So(names["env"], ShouldEqual, "test")
				So(names["status"], ShouldEqual, RunReady)

				h := family(registry, "test_unit_x_run_latency_milliseconds")
				So(h, ShouldNotBeNil)
				So(len(h.GetMetric()[0].GetHistogram().GetBucket()), ShouldEqual, 3)

				s := family(registry, "test_unit_x_pair_score")
				So(s, ShouldNotBeNil)
				So(len(s.GetMetric()[0].GetHistogram().GetBucket()), ShouldEqual, 2)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithRegistry(registry))

		Convey("When a run is recorded", func() {
			m.RecordIntake(7, 5)
			m.RecordSkipped("stale", 2)
			m.RecordSkipped("superseded", 0)
			m.RecordPairs([]float64{90, 40}, true)
			m.RecordRun(RunReady, 1.5)

			Convey("Then the pairing metrics reflect it", func() {
				So(family(registry, "duet_pairing_records_received_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 7)
				So(family(registry, "duet_pairing_last_run_eligible").GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 5)
				So(family(registry, "duet_pairing_last_run_pairs").GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 2)
				So(family(registry, "duet_pairing_trios_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				So(family(registry, "duet_pairing_pair_score").GetMetric()[0].GetHistogram().GetSampleCount(), ShouldEqual, 2)

				skipped := family(registry, "duet_pairing_records_skipped_total")
				So(len(skipped.GetMetric()), ShouldEqual, 1)
				So(skipped.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 2)
			})
		})

		Convey("When HTTP traffic is recorded", func() {
			m.RecordHTTPRequest("/v1/pairings", "POST", "200", 3)
			m.RecordRateLimited("/v1/pairings")
			m.RecordErrorByEndpoint("/v1/pairings", "POST", "bad_request")

			Convey("Then the HTTP metrics reflect it", func() {
				So(family(registry, "duet_pairing_http_requests_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				So(family(registry, "duet_pairing_http_rate_limited_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				So(family(registry, "duet_pairing_errors_by_endpoint_total"), ShouldNotBeNil)
			})
		})

		Convey("When system gauges are updated", func() {
			m.UpdateSystem(1024, 12, 0.4)
			So(family(registry, "duet_pairing_system_memory_usage_bytes").GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 1024)
			So(family(registry, "duet_pairing_system_goroutine_count").GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 12)
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithRegistry(registry), WithRecording(false))
		m.RecordScorerFault()
		m.RecordIntake(3, 3)

		Convey("Then nothing is recorded", func() {
			So(m.Enabled(), ShouldBeFalse)
			So(family(registry, "duet_pairing_scorer_faults_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 0)
			So(family(registry, "duet_pairing_records_received_total").GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(func() {
			RecordIntake(1, 1)
			RecordSkipped("missing_field", 1)
			RecordPairs([]float64{12}, false)
			RecordRun(RunInsufficient, 0.2)
			RecordScorerFault()
			RecordHTTPRequest("/healthz", "GET", "200", 0.1)
			RecordRateLimited("/v1/pairings")
			RecordErrorByEndpoint("/v1/pairings", "POST", "internal")
			UpdateSystem(1, 1, 0)
		}, ShouldNotPanic)
		So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		So(family(GetRegistry(), "duet_pairing_runs_total"), ShouldNotBeNil)
	})
}
