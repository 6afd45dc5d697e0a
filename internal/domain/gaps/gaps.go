// Package gaps predicts a runner's form score from their latest activity and
// measures the gap between each running dynamics metric and distance-aware
// elite targets.
package gaps

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/stride/internal/domain/model"
)

// Regressor scores a feature vector. The trained form model satisfies it.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// Fallback values used when a metric is missing from the latest activity.
const (
	defaultCadenceSPM    = 160.0
	defaultVerticalOscCM = 8.0
	defaultGroundContact = 260.0
	defaultStepSpeedLoss = 5.5
	defaultHeartRateBPM  = 155.0
	defaultPaceMinKM     = 5.5
	defaultDistanceKM    = 10.0
)

// Race distance cut points in kilometers.
const (
	fiveKMaxDistance = 7.0
	tenKMaxDistance  = 15.0
	halfMaxDistance  = 25.0
)

// priorityGapCount caps how many gaps the training plan focuses on.
const priorityGapCount = 3

// raceTarget overrides the base elite targets for one race distance.
type raceTarget struct {
	category  string
	pace      float64
	cadence   float64
	heartRate float64
}

var raceTargets = []struct {
	maxDistanceKM float64
	target        raceTarget
}{
	{fiveKMaxDistance, raceTarget{category: "5K Training", pace: 4.20, cadence: 180.0, heartRate: 165.0}},
	{tenKMaxDistance, raceTarget{category: "10K Training", pace: 4.35, cadence: 178.0, heartRate: 162.0}},
	{halfMaxDistance, raceTarget{category: "Half Training", pace: 4.55, cadence: 175.0, heartRate: 158.0}},
}

const marathonCategory = "Marathon Training"

// Metric keys in the model's feature order.
var featureOrder = []string{
	"cadencespm",
	"verticaloscillationcm",
	"groundcontacttimems",
	"stepspeedlosspct",
	"heartratebpm",
	"paceminkm",
}

// eliteTargets returns the distance-adjusted target per metric along with the
// race category label.
func eliteTargets(distanceKM float64) (map[string]float64, string) {
	// Marathon training baseline.
	targets := map[string]float64{
		"cadencespm":            175.0,
		"verticaloscillationcm": 7.2,
		"groundcontacttimems":   245.0,
		"stepspeedlosspct":      4.5,
		"heartratebpm":          155.0,
		"paceminkm":             5.05,
	}
	for _, rt := range raceTargets {
		if distanceKM <= rt.maxDistanceKM {
			targets["paceminkm"] = rt.target.pace
			targets["cadencespm"] = rt.target.cadence
			targets["heartratebpm"] = rt.target.heartRate
			return targets, rt.target.category
		}
	}
	return targets, marathonCategory
}

// Predictor scores activities against a trained model.
type Predictor struct {
	model Regressor
}

// New creates a Predictor over a trained regressor.
func New(model Regressor) *Predictor {
	return &Predictor{model: model}
}

// Predict scores the latest activity and computes its metric gaps.
func (p *Predictor) Predict(latest model.Activity) (model.Prediction, error) {
	features := []float64{
		orDefault(latest.AvgCadence, defaultCadenceSPM),
		orDefault(latest.AvgVerticalOsc, defaultVerticalOscCM),
		orDefault(latest.AvgGroundContact, defaultGroundContact),
		orDefault(latest.AvgStepSpeedPct, defaultStepSpeedLoss),
		orDefault(latest.AvgHR, defaultHeartRateBPM),
		orDefault(latest.AvgPaceMinKM, defaultPaceMinKM),
	}

	score, err := p.model.Predict(features)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict form score: %w", err)
	}

	distance := orDefault(latest.DistanceKM, defaultDistanceKM)
	targets, category := eliteTargets(distance)

	gaps := make(map[string]model.Gap, len(featureOrder))
	for i, metric := range featureOrder {
		gaps[metric] = model.Gap{
			Metric:  metric,
			Current: features[i],
			Target:  targets[metric],
			Gap:     features[i] - targets[metric],
		}
	}

	return model.Prediction{
		FormScore:        round1(score),
		Profile:          gaps,
		PriorityGaps:     priorityGaps(gaps),
		ActivityDate:     latest.Date,
		DistanceCategory: fmt.Sprintf("%s (%.1fkm)", category, distance),
	}, nil
}

// priorityGaps returns the largest absolute gaps, biggest first.
func priorityGaps(gaps map[string]model.Gap) []model.Gap {
	all := make([]model.Gap, 0, len(gaps))
	for _, g := range gaps {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool {
		ai, aj := math.Abs(all[i].Gap), math.Abs(all[j].Gap)
		if ai != aj {
			return ai > aj
		}
		return all[i].Metric < all[j].Metric
	})
	if len(all) > priorityGapCount {
		all = all[:priorityGapCount]
	}
	return all
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
