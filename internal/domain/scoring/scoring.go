// Package scoring turns an aggregated running profile into a 0-100 form
// analysis. Each metric is scored against its benchmark band, the per-metric
// scores are blended into a weighted overall score, and the analysis flags
// strengths, improvement areas and concrete recommendations.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/stride/internal/domain/benchmark"
	"github.com/okian/stride/internal/domain/model"
)

// Score band boundaries and slopes.
const (
	maxScore = 100.0
	minScore = 0.0

	// goodBandBase is the score at the bottom of the good band for
	// lower-is-better metrics. The band spans goodBandBase..maxScore.
	goodBandBase = 70.0
	goodBandSpan = 30.0

	// targetBandBase is the score at the bottom of the target band for
	// higher-is-better metrics. The band spans targetBandBase..maxScore.
	targetBandBase = 75.0
	targetBandSpan = 25.0

	// Penalty slopes per unit outside the bands.
	overBandSlope  = 5.0
	underBandSlope = 2.0
	aboveBandSlope = 3.0

	// belowBandFloor is the lowest score handed out for values below the
	// reference bands. Values above the bands can fall all the way to zero.
	belowBandFloor = 30.0
)

// Status thresholds on the per-metric score.
const (
	statusElite  = 95.0
	statusGood   = 75.0
	statusTarget = 60.0

	// strengthThreshold and improvementThreshold classify metrics in the
	// analysis summary.
	strengthThreshold    = 80.0
	improvementThreshold = 70.0
)

// Metric keys used in the analysis output. They are shorter than the
// benchmark table keys because the analysis is keyed by concept, not unit.
const (
	MetricCadence       = "cadence"
	MetricVerticalOsc   = "vertical_oscillation"
	MetricVerticalRatio = "vertical_ratio"
	MetricGroundContact = "ground_contact_time"
	MetricStepSpeedLoss = "step_speed_loss"
	MetricHREfficiency  = "hr_efficiency"
)

// defaultWeights blend the per-metric scores into the overall score.
// Vertical ratio is scored and reported but excluded from the blend because
// it is largely redundant with vertical oscillation.
var defaultWeights = map[string]float64{
	MetricCadence:       0.15,
	MetricVerticalOsc:   0.20,
	MetricGroundContact: 0.20,
	MetricStepSpeedLoss: 0.25,
	MetricHREfficiency:  0.20,
}

// Scorer analyzes running profiles against the benchmark table.
type Scorer struct {
	weights map[string]float64
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the overall-score blend weights.
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		if len(weights) > 0 {
			s.weights = weights
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scorer with the default weights.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights: defaultWeights,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreMetric scores a single value against the named benchmark.
func (s *Scorer) ScoreMetric(value float64, benchmarkKey string) (model.MetricScore, error) {
	bench, ok := benchmark.Lookup(benchmarkKey)
	if !ok {
		return model.MetricScore{}, fmt.Errorf("%w: %q", ErrUnknownMetric, benchmarkKey)
	}

	var score float64
	if bench.LowerIsBetter {
		score = scoreLowerIsBetter(value, bench)
	} else {
		score = scoreHigherIsBetter(value, bench)
	}
	score = math.Min(maxScore, math.Max(minScore, score))

	return model.MetricScore{
		Value:       round(value, 2),
		Score:       round(score, 1),
		Status:      statusFor(score),
		Description: bench.Description,
	}, nil
}

func scoreLowerIsBetter(value float64, bench benchmark.Benchmark) float64 {
	switch {
	case bench.Elite.Contains(value):
		return maxScore
	case bench.Good.Contains(value):
		position := (value - bench.Good.Min) / (bench.Good.Max - bench.Good.Min)
		return goodBandBase + position*goodBandSpan
	case value < bench.Elite.Min:
		// Better than elite.
		return maxScore
	default:
		return math.Max(belowBandFloor, goodBandBase-(value-bench.Good.Max)*overBandSlope)
	}
}

func scoreHigherIsBetter(value float64, bench benchmark.Benchmark) float64 {
	switch {
	case bench.Elite.Contains(value):
		return maxScore
	case bench.Target.Contains(value):
		position := (value - bench.Target.Min) / (bench.Target.Max - bench.Target.Min)
		return targetBandBase + position*targetBandSpan
	case value < bench.Target.Min:
		return math.Max(belowBandFloor, targetBandBase-(bench.Target.Min-value)*underBandSlope)
	default:
		return math.Max(minScore, targetBandBase-(value-bench.Target.Max)*aboveBandSlope)
	}
}

func statusFor(score float64) string {
	switch {
	case score >= statusElite:
		return "Elite"
	case score >= statusGood:
		return "Good"
	case score >= statusTarget:
		return "Target"
	default:
		return "Develop"
	}
}

// Analyze scores every benchmarked metric of a profile and builds the full
// form analysis with strengths, improvement areas and recommendations.
func (s *Scorer) Analyze(profile model.RunningProfile) (model.FormAnalysis, error) {
	hrEfficiency := 0.0
	if profile.MaxHR > 0 {
		hrEfficiency = profile.AvgHR / profile.MaxHR * 100
	}

	inputs := []struct {
		key      string
		benchKey string
		value    float64
	}{
		{MetricCadence, benchmark.Cadence, profile.AvgCadence},
		{MetricVerticalOsc, benchmark.VerticalOsc, profile.AvgVerticalOsc},
		{MetricVerticalRatio, benchmark.VerticalRatio, profile.AvgVerticalRatio},
		{MetricGroundContact, benchmark.GroundContact, profile.AvgGroundContact},
		{MetricStepSpeedLoss, benchmark.StepSpeedLoss, profile.AvgStepSpeedLossPct},
		{MetricHREfficiency, benchmark.HREfficiency, hrEfficiency},
	}

	analysis := model.FormAnalysis{
		Timestamp:        s.now().Format(time.RFC3339),
		NumActivities:    profile.NumActivities,
		Metrics:          make(map[string]model.MetricScore, len(inputs)),
		Strengths:        []model.Highlight{},
		ImprovementAreas: []model.Improvement{},
		Recommendations:  []string{},
	}

	for _, in := range inputs {
		score, err := s.ScoreMetric(in.value, in.benchKey)
		if err != nil {
			return model.FormAnalysis{}, err
		}
		analysis.Metrics[in.key] = score
	}

	overall := 0.0
	for key, weight := range s.weights {
		overall += analysis.Metrics[key].Score * weight
	}
	analysis.OverallScore = round(overall, 1)

	for _, in := range inputs {
		metric := analysis.Metrics[in.key]
		switch {
		case metric.Score >= strengthThreshold:
			analysis.Strengths = append(analysis.Strengths, model.Highlight{
				Metric: title(in.key),
				Score:  metric.Score,
				Value:  metric.Value,
			})
		case metric.Score < improvementThreshold:
			bench, _ := benchmark.Lookup(in.benchKey)
			analysis.ImprovementAreas = append(analysis.ImprovementAreas, model.Improvement{
				Metric: title(in.key),
				Score:  metric.Score,
				Value:  metric.Value,
				Target: model.Band{Min: bench.Target.Min, Max: bench.Target.Max},
			})
		}
	}

	analysis.Recommendations = recommendations(profile, hrEfficiency)
	return analysis, nil
}

// Recommendation trigger thresholds on the raw metric values.
const (
	lowCadenceSPM     = 165.0
	highStepLossPct   = 7.0
	highVerticalOsc   = 8.5
	longGroundContact = 280.0
)

func recommendations(profile model.RunningProfile, hrEfficiency float64) []string {
	recs := []string{}
	if profile.AvgCadence < lowCadenceSPM {
		recs = append(recs, fmt.Sprintf(
			"Increase cadence from %.0f to 170+ spm using metronome drills", profile.AvgCadence))
	}
	if profile.AvgStepSpeedLossPct > highStepLossPct {
		recs = append(recs, "Reduce SSL with hill repeats and lower-body strength training")
	}
	if profile.AvgVerticalOsc > highVerticalOsc {
		recs = append(recs, "Improve VO with lighter footstrike drills and calf strengthening")
	}
	if profile.AvgGroundContact > longGroundContact {
		recs = append(recs, "Shorten GCT with plyometric training and explosive leg work")
	}
	return recs
}

func title(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
