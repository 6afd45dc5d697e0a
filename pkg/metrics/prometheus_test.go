package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/pkg/metrics"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("A manager registers its metrics without conflict", func() {
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(registry),
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("suite"),
			)
			So(m, ShouldNotBeNil)

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Counters only appear after first use; gauges register up front.
			So(families, ShouldNotBeNil)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Record helpers accept values without panicking", func() {
			So(func() {
				metrics.RecordPhaseRun("analysis", "success")
				metrics.RecordPhaseDuration("analysis", 0.25)
				metrics.RecordActivitiesIngested(3)
				metrics.RecordFITFileConverted()
				metrics.RecordParseFallback("pace")
				metrics.RecordSyntheticRuns(48)
				metrics.UpdateFormScore(72.5)
				metrics.RecordPredictionScore(81.0)
				metrics.RecordHTTPRequest("health", "GET", "200")
				metrics.RecordHTTPRequestDuration("health", "GET", "200", 1.5)
			}, ShouldNotPanic)
		})

		Convey("The registry is exposed for serving", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
