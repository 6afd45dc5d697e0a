package artifact_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/adapters/artifact"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/synthetic"
	"github.com/okian/stride/internal/ml"
)

func TestStoreJSON(t *testing.T) {
	Convey("Given a store in a temp directory", t, func() {
		store := artifact.New(artifact.WithRoot(t.TempDir()))
		So(store.EnsureLayout(), ShouldBeNil)

		Convey("Profiles round-trip unchanged", func() {
			profile := model.RunningProfile{
				NumActivities:   12,
				TotalDistanceKM: 96.4,
				AvgCadence:      161.5,
				MaxHR:           178,
				AvgPaceMinKM:    5.82,
			}
			So(store.SaveProfile(profile), ShouldBeNil)

			got, err := store.LoadProfile()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, profile)
		})

		Convey("Missing artifacts report not found", func() {
			_, err := store.LoadAnalysis()
			So(err, ShouldWrap, artifact.ErrNotFound)
			So(store.Exists(artifact.AnalysisFile), ShouldBeFalse)
		})

		Convey("The archetype table is persisted keyed by archetype", func() {
			So(store.SaveTargets(), ShouldBeNil)
			So(store.Exists(artifact.TargetsFile), ShouldBeTrue)
		})

		Convey("Predictions and tips round-trip", func() {
			pred := model.Prediction{
				FormScore: 72.4,
				Profile: map[string]model.Gap{
					"cadencespm": {Metric: "cadencespm", Current: 161, Target: 178, Gap: -17},
				},
				PriorityGaps:     []model.Gap{{Metric: "cadencespm", Current: 161, Target: 178, Gap: -17}},
				ActivityDate:     "2026-02-18",
				DistanceCategory: "10K Training (9.6km)",
			}
			So(store.SavePrediction(pred), ShouldBeNil)
			got, err := store.LoadPrediction()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, pred)
		})
	})
}

func TestStoreModel(t *testing.T) {
	Convey("Given a trained model", t, func() {
		store := artifact.New(artifact.WithRoot(t.TempDir()))
		So(store.EnsureLayout(), ShouldBeNil)

		g := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(5))))
		runs := synthetic.Combine(g.AllProfiles(model.RunningProfile{
			AvgCadence:          158,
			AvgVerticalOsc:      8.6,
			AvgGroundContact:    275,
			AvgStepSpeedLossPct: 7.1,
			AvgHR:               150,
		}))
		fm, _, err := ml.Train(runs, ml.DefaultLambda)
		So(err, ShouldBeNil)

		Convey("Saving and loading preserves predictions", func() {
			So(store.SaveModel(fm), ShouldBeNil)

			loaded, err := store.LoadModel()
			So(err, ShouldBeNil)
			So(loaded.Columns, ShouldResemble, ml.FeatureColumns)

			features := []float64{165, 8.0, 260, 6.0, 148, 5.4}
			want, err := fm.Predict(features)
			So(err, ShouldBeNil)
			got, err := loaded.Predict(features)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, want, 1e-9)
		})
	})
}

func TestStoreSyntheticCSV(t *testing.T) {
	Convey("Given a synthetic dataset", t, func() {
		store := artifact.New(artifact.WithRoot(t.TempDir()))
		So(store.EnsureLayout(), ShouldBeNil)

		g := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(9))))
		datasets := g.AllProfiles(model.RunningProfile{
			AvgCadence:          160,
			AvgVerticalOsc:      8.4,
			AvgGroundContact:    272,
			AvgStepSpeedLossPct: 6.8,
			AvgHR:               152,
		})
		combined := synthetic.Combine(datasets)

		Convey("CSV write and read round-trips every run", func() {
			So(store.SaveSyntheticCSV(artifact.CombinedCSVName, combined), ShouldBeNil)

			got, err := store.LoadSyntheticCSV(artifact.CombinedCSVName)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, combined)
		})

		Convey("Reading a missing dataset reports not found", func() {
			_, err := store.LoadSyntheticCSV("synthetic_sprinter.csv")
			So(err, ShouldWrap, artifact.ErrNotFound)
		})
	})
}
