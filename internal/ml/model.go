// Package ml trains and evaluates the form score model. The model is a ridge
// regression over six standardized running dynamics features, trained on
// synthetic progression data labeled with a distance-to-elite form score.
package ml

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/stride/internal/domain/model"
)

// FeatureColumns is the fixed feature order of the model. Training and
// prediction must both use it.
var FeatureColumns = []string{
	"cadencespm",
	"verticaloscillationcm",
	"groundcontacttimems",
	"stepspeedlosspct",
	"heartratebpm",
	"paceminkm",
}

// Elite reference values the training label measures distance from. Heart
// rate is excluded from the label on purpose, it is a context feature.
var eliteLabelTargets = map[string]float64{
	"cadencespm":            175.0,
	"verticaloscillationcm": 7.2,
	"groundcontacttimems":   245.0,
	"stepspeedlosspct":      4.5,
	"paceminkm":             5.15,
}

// labelWeights blend the per-metric relative errors into one label.
var labelWeights = map[string]float64{
	"cadencespm":            0.20,
	"verticaloscillationcm": 0.25,
	"groundcontacttimems":   0.25,
	"stepspeedlosspct":      0.20,
	"paceminkm":             0.10,
}

// Training defaults.
const (
	DefaultLambda = 1.0

	testFraction = 0.2
	splitSeed    = 42
)

// FormModel bundles the fitted scaler and regressor.
type FormModel struct {
	Scaler  StandardScaler `json:"scaler"`
	Ridge   Ridge          `json:"model"`
	Columns []string       `json:"feature_columns"`
}

// Metrics summarizes a training run.
type Metrics struct {
	TrainR2   float64 `json:"train_r2"`
	TestR2    float64 `json:"test_r2"`
	TestRMSE  float64 `json:"test_rmse"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

// Features extracts the model's feature vector from a synthetic run.
func Features(run model.SyntheticRun) []float64 {
	return []float64{
		run.CadenceSPM,
		run.VerticalOscCM,
		run.GroundContactMS,
		run.StepSpeedLossPct,
		run.HeartRateBPM,
		run.PaceMinKM,
	}
}

// Label computes the form score label for a synthetic run: 100 minus the
// weighted relative distance from the elite targets, clamped to [0,100].
func Label(run model.SyntheticRun) float64 {
	features := Features(run)
	errSum := 0.0
	for i, col := range FeatureColumns {
		target, ok := eliteLabelTargets[col]
		if !ok {
			continue
		}
		errSum += math.Abs(features[i]-target) / target * labelWeights[col]
	}
	return math.Min(100, math.Max(0, (1-errSum)*100))
}

// Train fits a form model on synthetic runs with an 80/20 holdout split.
func Train(runs []model.SyntheticRun, lambda float64) (*FormModel, Metrics, error) {
	if len(runs) < 5 {
		return nil, Metrics{}, fmt.Errorf("%w: %d runs", ErrBadTrainingData, len(runs))
	}

	x := make([][]float64, len(runs))
	y := make([]float64, len(runs))
	for i, run := range runs {
		x[i] = Features(run)
		y[i] = Label(run)
	}

	// Deterministic shuffle so repeated training runs agree.
	rng := rand.New(rand.NewSource(splitSeed))
	perm := rng.Perm(len(runs))
	testSize := int(float64(len(runs)) * testFraction)
	if testSize == 0 {
		testSize = 1
	}

	trainX := make([][]float64, 0, len(runs)-testSize)
	trainY := make([]float64, 0, len(runs)-testSize)
	testX := make([][]float64, 0, testSize)
	testY := make([]float64, 0, testSize)
	for i, idx := range perm {
		if i < testSize {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		} else {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		}
	}

	fm := &FormModel{
		Ridge:   Ridge{Lambda: lambda},
		Columns: FeatureColumns,
	}
	if err := fm.Scaler.Fit(trainX); err != nil {
		return nil, Metrics{}, err
	}
	trainScaled, err := fm.Scaler.TransformAll(trainX)
	if err != nil {
		return nil, Metrics{}, err
	}
	testScaled, err := fm.Scaler.TransformAll(testX)
	if err != nil {
		return nil, Metrics{}, err
	}
	if err := fm.Ridge.Fit(trainScaled, trainY); err != nil {
		return nil, Metrics{}, err
	}

	trainPred := predictAll(&fm.Ridge, trainScaled)
	testPred := predictAll(&fm.Ridge, testScaled)

	metrics := Metrics{
		TrainR2:   stat.RSquaredFrom(trainPred, trainY, nil),
		TestR2:    stat.RSquaredFrom(testPred, testY, nil),
		TestRMSE:  rmse(testPred, testY),
		TrainRows: len(trainY),
		TestRows:  len(testY),
	}
	return fm, metrics, nil
}

// Predict scores a raw feature vector in FeatureColumns order.
func (m *FormModel) Predict(features []float64) (float64, error) {
	if len(m.Ridge.Weights) == 0 {
		return 0, ErrModelNotTrained
	}
	scaled, err := m.Scaler.Transform(features)
	if err != nil {
		return 0, err
	}
	return m.Ridge.Predict(scaled)
}

func predictAll(r *Ridge, x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i], _ = r.Predict(row)
	}
	return out
}

func rmse(pred, actual []float64) float64 {
	if len(pred) == 0 {
		return 0
	}
	sum := 0.0
	for i := range pred {
		d := pred[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pred)))
}
