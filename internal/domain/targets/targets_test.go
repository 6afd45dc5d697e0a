package targets_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/targets"
)

func TestLookup(t *testing.T) {
	Convey("Given the archetype table", t, func() {
		Convey("All three archetypes resolve", func() {
			for _, key := range targets.Keys() {
				p, ok := targets.Lookup(key)
				So(ok, ShouldBeTrue)
				So(p.Key, ShouldEqual, key)
				So(len(p.Metrics), ShouldEqual, 6)
				So(len(p.TrainingFocus), ShouldEqual, 4)
			}
			So(len(targets.Keys()), ShouldEqual, 3)
		})

		Convey("Unknown keys do not resolve", func() {
			_, ok := targets.Lookup("sprinter")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCurrentMetrics(t *testing.T) {
	Convey("Given an aggregated running profile", t, func() {
		profile := model.RunningProfile{
			AvgCadence:          165,
			AvgVerticalOsc:      7.8,
			AvgVerticalRatio:    8.0,
			AvgGroundContact:    265,
			AvgStepSpeedLossPct: 5.7,
			AvgHR:               150,
			MaxHR:               180,
		}

		Convey("The comparable metric map is keyed like the archetype tables", func() {
			current := targets.CurrentMetrics(profile)
			So(current["cadence_spm"], ShouldEqual, 165)
			So(current["vertical_oscillation_cm"], ShouldEqual, 7.8)
			So(current["ground_contact_time_ms"], ShouldEqual, 265)
			So(current["hr_efficiency"], ShouldAlmostEqual, 83.333, 0.001)
		})

		Convey("A zero max heart rate omits the efficiency metric", func() {
			profile.MaxHR = 0
			current := targets.CurrentMetrics(profile)
			So(current, ShouldNotContainKey, "hr_efficiency")
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given a set of current metric values", t, func() {
		Convey("A runner exactly on an archetype's ideals is an excellent fit", func() {
			efficient, _ := targets.Lookup(targets.EfficientRunner)
			current := make(map[string]float64, len(efficient.Metrics))
			for metric, rng := range efficient.Metrics {
				current[metric] = rng.Ideal
			}

			cmp := targets.Compare(current)
			pc := cmp.Profiles[targets.EfficientRunner]
			So(pc.MetricsDistance, ShouldEqual, 0)
			So(pc.AvgMetricDistance, ShouldEqual, 0)
			So(pc.Fit, ShouldEqual, targets.FitExcellent)
			for _, delta := range pc.MetricDeltas {
				So(delta.Delta, ShouldEqual, 0)
				So(delta.DeltaPercent, ShouldEqual, 0)
			}
		})

		Convey("Large distances flag significant changes", func() {
			cmp := targets.Compare(map[string]float64{
				"cadence_spm":            150,
				"ground_contact_time_ms": 300,
			})
			for _, pc := range cmp.Profiles {
				So(pc.Fit, ShouldEqual, targets.FitSignificant)
			}
		})

		Convey("Metrics missing from the input are skipped", func() {
			cmp := targets.Compare(map[string]float64{"cadence_spm": 170})
			pc := cmp.Profiles[targets.BalancedRunner]
			So(len(pc.MetricDeltas), ShouldEqual, 1)
			So(pc.MetricsDistance, ShouldEqual, 0)
			So(pc.AvgMetricDistance, ShouldEqual, 0)
		})
	})
}
