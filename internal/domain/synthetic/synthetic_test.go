package synthetic_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/synthetic"
	"github.com/okian/stride/internal/domain/targets"
)

func testProfile() model.RunningProfile {
	return model.RunningProfile{
		AvgCadence:          160,
		AvgVerticalOsc:      8.4,
		AvgGroundContact:    272,
		AvgStepSpeedLossPct: 6.8,
		AvgHR:               152,
	}
}

func TestInterpolate(t *testing.T) {
	Convey("Given a noise-free generator", t, func() {
		g := synthetic.New(
			synthetic.WithWeeks(16),
			synthetic.WithNoiseLevel(0),
		)

		Convey("The progression is exactly linear", func() {
			values := g.Interpolate(160, 175)
			So(len(values), ShouldEqual, 16)
			So(values[7], ShouldEqual, 167.5)
			So(values[15], ShouldEqual, 175)
		})

		Convey("A flat progression stays flat", func() {
			values := g.Interpolate(170, 170)
			for _, v := range values {
				So(v, ShouldEqual, 170)
			}
		})
	})

	Convey("Given a fixed seed", t, func() {
		Convey("Generation is reproducible", func() {
			a := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(42)))).Interpolate(160, 175)
			b := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(42)))).Interpolate(160, 175)
			So(a, ShouldResemble, b)
		})
	})
}

func TestProgression(t *testing.T) {
	Convey("Given a generator with a fixed seed", t, func() {
		g := synthetic.New(
			synthetic.WithWeeks(16),
			synthetic.WithRunsPerWeek(3),
			synthetic.WithRand(rand.New(rand.NewSource(7))),
		)
		efficient, _ := targets.Lookup(targets.EfficientRunner)

		Convey("It produces weeks x runs-per-week runs", func() {
			runs := g.Progression(testProfile(), efficient)
			So(len(runs), ShouldEqual, 48)

			Convey("With sequential synthetic activity ids", func() {
				So(runs[0].ActivityID, ShouldEqual, "synthetic_1001")
				So(runs[47].ActivityID, ShouldEqual, "synthetic_1048")
			})

			Convey("Distances and durations stay inside the envelope", func() {
				for _, run := range runs {
					So(run.DistanceKM, ShouldBeBetweenOrEqual, 4, 12)
					So(run.DurationMin, ShouldBeBetweenOrEqual, 30, 80)
					So(run.AerobicTE, ShouldBeBetweenOrEqual, 1, 5)
				}
			})

			Convey("Runs within one week share the weekly metric values", func() {
				So(runs[0].CadenceSPM, ShouldEqual, runs[1].CadenceSPM)
				So(runs[0].CadenceSPM, ShouldEqual, runs[2].CadenceSPM)
				So(runs[0].Week, ShouldEqual, 1)
				So(runs[3].Week, ShouldEqual, 2)
			})

			Convey("Phases move from early toward advanced", func() {
				So(runs[0].ImprovementPhase, ShouldEqual, "early")
				So(runs[47].ImprovementPhase, ShouldEqual, "advanced")
			})
		})
	})
}

func TestAllProfiles(t *testing.T) {
	Convey("Given a generator", t, func() {
		g := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(3))))

		Convey("Every archetype gets a dataset", func() {
			datasets := g.AllProfiles(testProfile())
			So(len(datasets), ShouldEqual, 3)
			for _, ds := range datasets {
				So(len(ds.Runs), ShouldEqual, 48)
				So(ds.ProfileName, ShouldNotBeEmpty)
			}

			Convey("And the combined set tags each run with its archetype", func() {
				combined := synthetic.Combine(datasets)
				So(len(combined), ShouldEqual, 144)
				So(combined[0].TargetProfile, ShouldEqual, datasets[0].ProfileName)
				So(combined[143].TargetProfile, ShouldEqual, datasets[2].ProfileName)
			})
		})
	})
}
