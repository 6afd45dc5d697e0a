package ml_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/synthetic"
	"github.com/okian/stride/internal/ml"
)

func trainingRuns() []model.SyntheticRun {
	g := synthetic.New(synthetic.WithRand(rand.New(rand.NewSource(11))))
	profile := model.RunningProfile{
		AvgCadence:          160,
		AvgVerticalOsc:      8.4,
		AvgGroundContact:    272,
		AvgStepSpeedLossPct: 6.8,
		AvgHR:               152,
	}
	return synthetic.Combine(g.AllProfiles(profile))
}

func TestScaler(t *testing.T) {
	Convey("Given a fitted scaler", t, func() {
		var s ml.StandardScaler
		err := s.Fit([][]float64{{1, 10}, {2, 10}, {3, 10}})
		So(err, ShouldBeNil)

		Convey("It centers and scales each column", func() {
			scaled, err := s.Transform([]float64{2, 10})
			So(err, ShouldBeNil)
			So(scaled[0], ShouldAlmostEqual, 0, 1e-9)
			So(scaled[1], ShouldAlmostEqual, 0, 1e-9)

			high, err := s.Transform([]float64{3, 10})
			So(err, ShouldBeNil)
			So(high[0], ShouldBeGreaterThan, 0)
		})

		Convey("Zero-variance columns do not divide by zero", func() {
			scaled, err := s.Transform([]float64{2, 11})
			So(err, ShouldBeNil)
			So(scaled[1], ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("Width mismatches are rejected", func() {
			_, err := s.Transform([]float64{1})
			So(err, ShouldWrap, ml.ErrFeatureMismatch)
		})
	})

	Convey("Fitting an empty matrix fails", t, func() {
		var s ml.StandardScaler
		So(s.Fit(nil), ShouldWrap, ml.ErrBadTrainingData)
	})
}

func TestRidge(t *testing.T) {
	Convey("Given a noise-free linear relationship", t, func() {
		x := [][]float64{{1, 0}, {2, 1}, {3, 4}, {4, 2}, {5, 7}, {6, 3}}
		y := make([]float64, len(x))
		for i, row := range x {
			y[i] = 3 + 2*row[0] - row[1]
		}

		Convey("An unregularized fit recovers the coefficients", func() {
			r := ml.Ridge{Lambda: 0}
			So(r.Fit(x, y), ShouldBeNil)
			So(r.Intercept, ShouldAlmostEqual, 3, 1e-6)
			So(r.Weights[0], ShouldAlmostEqual, 2, 1e-6)
			So(r.Weights[1], ShouldAlmostEqual, -1, 1e-6)

			pred, err := r.Predict([]float64{10, 5})
			So(err, ShouldBeNil)
			So(pred, ShouldAlmostEqual, 18, 1e-6)
		})

		Convey("Regularization shrinks the weights", func() {
			var loose, tight ml.Ridge
			loose.Lambda = 0
			tight.Lambda = 100
			So(loose.Fit(x, y), ShouldBeNil)
			So(tight.Fit(x, y), ShouldBeNil)
			So(tight.Weights[0], ShouldBeLessThan, loose.Weights[0])
		})
	})
}

func TestLabel(t *testing.T) {
	Convey("Given synthetic runs", t, func() {
		Convey("A run exactly on the elite targets labels 100", func() {
			run := model.SyntheticRun{
				CadenceSPM:       175,
				VerticalOscCM:    7.2,
				GroundContactMS:  245,
				StepSpeedLossPct: 4.5,
				HeartRateBPM:     150,
				PaceMinKM:        5.15,
			}
			So(ml.Label(run), ShouldAlmostEqual, 100, 1e-9)
		})

		Convey("Heart rate does not move the label", func() {
			a := model.SyntheticRun{CadenceSPM: 160, VerticalOscCM: 8, GroundContactMS: 270, StepSpeedLossPct: 6, PaceMinKM: 5.5, HeartRateBPM: 140}
			b := a
			b.HeartRateBPM = 180
			So(ml.Label(a), ShouldAlmostEqual, ml.Label(b), 1e-9)
		})

		Convey("Labels stay clamped to [0,100]", func() {
			awful := model.SyntheticRun{CadenceSPM: 10, VerticalOscCM: 100, GroundContactMS: 900, StepSpeedLossPct: 60, PaceMinKM: 20}
			So(ml.Label(awful), ShouldBeBetweenOrEqual, 0, 100)
		})
	})
}

func TestTrain(t *testing.T) {
	Convey("Given a combined synthetic dataset", t, func() {
		runs := trainingRuns()
		So(len(runs), ShouldEqual, 144)

		Convey("Training fits a usable model", func() {
			fm, metrics, err := ml.Train(runs, ml.DefaultLambda)
			So(err, ShouldBeNil)
			So(metrics.TrainRows+metrics.TestRows, ShouldEqual, 144)
			So(metrics.TestRows, ShouldEqual, 28)
			So(len(fm.Ridge.Weights), ShouldEqual, len(ml.FeatureColumns))

			Convey("Predictions track the label for elite input", func() {
				score, err := fm.Predict([]float64{175, 7.2, 245, 4.5, 150, 5.15})
				So(err, ShouldBeNil)
				So(score, ShouldBeBetween, 70, 115)
			})

			Convey("Training is deterministic", func() {
				again, _, err := ml.Train(runs, ml.DefaultLambda)
				So(err, ShouldBeNil)
				So(again.Ridge.Weights, ShouldResemble, fm.Ridge.Weights)
			})
		})

		Convey("Too little data is rejected", func() {
			_, _, err := ml.Train(runs[:3], ml.DefaultLambda)
			So(err, ShouldWrap, ml.ErrBadTrainingData)
		})
	})
}
