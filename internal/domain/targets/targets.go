// Package targets defines the runner archetypes a form profile can be
// compared against and the comparison logic that picks the closest fit.
package targets

import (
	"math"
	"sort"

	"github.com/okian/stride/internal/domain/model"
)

// MetricRange is the acceptable band and ideal value of one metric for an
// archetype.
type MetricRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Ideal       float64 `json:"ideal"`
	Description string  `json:"description"`
}

// Profile is a runner archetype with its target metric bands and training mix.
type Profile struct {
	Key             string                 `json:"key"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Archetype       string                 `json:"archetype"`
	Metrics         map[string]MetricRange `json:"metrics"`
	TrainingFocus   []string               `json:"training_focus"`
	TargetPaceMinKM float64                `json:"target_pace_min_km"`
	TargetMaxHR     float64                `json:"target_max_hr"`
}

// Archetype keys.
const (
	SteadyRunner    = "steady_runner"
	EfficientRunner = "efficient_runner"
	BalancedRunner  = "balanced_runner"
)

var profiles = map[string]Profile{
	SteadyRunner: {
		Key:         SteadyRunner,
		Name:        "Steady Runner",
		Description: "Conservative, focus on endurance and consistency",
		Archetype:   "Marathon-focused, injury-preventive approach",
		Metrics: map[string]MetricRange{
			"cadence_spm":             {Min: 155, Max: 165, Ideal: 160, Description: "Lower cadence, longer stride"},
			"vertical_oscillation_cm": {Min: 7.0, Max: 8.0, Ideal: 7.5, Description: "Good bounce control"},
			"vertical_ratio":          {Min: 7.0, Max: 8.0, Ideal: 7.5, Description: "Efficient vertical movement"},
			"ground_contact_time_ms":  {Min: 250, Max: 260, Ideal: 255, Description: "Moderate contact time"},
			"step_speed_loss_percent": {Min: 5.0, Max: 6.0, Ideal: 5.5, Description: "Low energy loss per step"},
			"hr_efficiency":           {Min: 75, Max: 85, Ideal: 80, Description: "Conservative HR zones"},
		},
		TrainingFocus: []string{
			"Long, steady runs (60-90 min)",
			"Easy recovery runs",
			"Occasional tempo runs (20-30 min)",
			"Strength: 1x/week (maintenance)",
		},
		TargetPaceMinKM: 5.45,
		TargetMaxHR:     170,
	},
	EfficientRunner: {
		Key:         EfficientRunner,
		Name:        "Efficient Runner",
		Description: "Optimized form, focus on running economy",
		Archetype:   "Speed-focused, biomechanically efficient",
		Metrics: map[string]MetricRange{
			"cadence_spm":             {Min: 170, Max: 180, Ideal: 175, Description: "Higher cadence, shorter stride"},
			"vertical_oscillation_cm": {Min: 7.0, Max: 7.5, Ideal: 7.2, Description: "Minimal bounce"},
			"vertical_ratio":          {Min: 7.0, Max: 7.5, Ideal: 7.2, Description: "Very efficient movement"},
			"ground_contact_time_ms":  {Min: 240, Max: 250, Ideal: 245, Description: "Short contact time"},
			"step_speed_loss_percent": {Min: 4.0, Max: 5.0, Ideal: 4.5, Description: "Minimal energy loss"},
			"hr_efficiency":           {Min: 78, Max: 88, Ideal: 83, Description: "Optimized zone efficiency"},
		},
		TrainingFocus: []string{
			"Tempo runs (30-40 min)",
			"Interval training (6-8 x 3-5min)",
			"Speed work (fartlek, strides)",
			"Strength: 2x/week (explosive)",
		},
		TargetPaceMinKM: 5.15,
		TargetMaxHR:     172,
	},
	BalancedRunner: {
		Key:         BalancedRunner,
		Name:        "Balanced Runner",
		Description: "Mix of speed and endurance, versatile training",
		Archetype:   "All-around, adaptable to different race distances",
		Metrics: map[string]MetricRange{
			"cadence_spm":             {Min: 165, Max: 175, Ideal: 170, Description: "Moderate-high cadence"},
			"vertical_oscillation_cm": {Min: 7.5, Max: 8.5, Ideal: 8.0, Description: "Good bounce control"},
			"vertical_ratio":          {Min: 7.5, Max: 8.5, Ideal: 8.0, Description: "Balanced efficiency"},
			"ground_contact_time_ms":  {Min: 250, Max: 270, Ideal: 260, Description: "Balanced contact"},
			"step_speed_loss_percent": {Min: 5.0, Max: 7.0, Ideal: 6.0, Description: "Moderate energy efficiency"},
			"hr_efficiency":           {Min: 76, Max: 86, Ideal: 81, Description: "Balanced zone distribution"},
		},
		TrainingFocus: []string{
			"Mix of easy and tempo runs",
			"Occasional speed work (8-10 x 2-3min)",
			"Medium-long runs (45-75 min)",
			"Strength: 2x/week (balanced)",
		},
		TargetPaceMinKM: 5.30,
		TargetMaxHR:     171,
	},
}

// Lookup returns the archetype for a key.
func Lookup(key string) (Profile, bool) {
	p, ok := profiles[key]
	return p, ok
}

// Keys returns every archetype key in a stable order.
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns every archetype in key order.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, k := range Keys() {
		out = append(out, profiles[k])
	}
	return out
}

// Fit thresholds on the summed absolute metric distance.
const (
	excellentFitDistance = 2.0
	goodFitDistance      = 3.5
)

// Fit labels.
const (
	FitExcellent   = "excellent fit"
	FitGood        = "good fit"
	FitSignificant = "significant changes needed"
)

// MetricDelta is the gap between a current metric and an archetype's ideal.
type MetricDelta struct {
	Current      float64 `json:"current"`
	Target       float64 `json:"target"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
}

// ProfileComparison summarizes how far a runner sits from one archetype.
type ProfileComparison struct {
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	MetricsDistance   float64                `json:"metrics_distance"`
	AvgMetricDistance float64                `json:"avg_metric_distance"`
	MetricDeltas      map[string]MetricDelta `json:"metric_deltas"`
	Fit               string                 `json:"fit"`
}

// Comparison is the full output of comparing a runner to every archetype.
type Comparison struct {
	Current  map[string]float64           `json:"current"`
	Profiles map[string]ProfileComparison `json:"profiles"`
}

// CurrentMetrics extracts the comparable metric values from an aggregated
// running profile, keyed the way the archetype tables are.
func CurrentMetrics(p model.RunningProfile) map[string]float64 {
	metrics := map[string]float64{
		"cadence_spm":             p.AvgCadence,
		"vertical_oscillation_cm": p.AvgVerticalOsc,
		"vertical_ratio":          p.AvgVerticalRatio,
		"ground_contact_time_ms":  p.AvgGroundContact,
		"step_speed_loss_percent": p.AvgStepSpeedLossPct,
	}
	if p.MaxHR > 0 {
		metrics["hr_efficiency"] = p.AvgHR / p.MaxHR * 100
	}
	return metrics
}

// Compare measures the distance from the current metric values to the ideal
// of every archetype. Metrics absent from current are skipped.
func Compare(current map[string]float64) Comparison {
	out := Comparison{
		Current:  current,
		Profiles: make(map[string]ProfileComparison, len(profiles)),
	}

	for key, profile := range profiles {
		pc := ProfileComparison{
			Name:         profile.Name,
			Description:  profile.Description,
			MetricDeltas: make(map[string]MetricDelta, len(profile.Metrics)),
		}

		numMetrics := 0
		for metric, rng := range profile.Metrics {
			value, ok := current[metric]
			if !ok {
				continue
			}
			delta := value - rng.Ideal
			deltaPercent := 0.0
			if rng.Ideal != 0 {
				deltaPercent = round(delta/rng.Ideal*100, 1)
			}
			pc.MetricDeltas[metric] = MetricDelta{
				Current:      round(value, 2),
				Target:       round(rng.Ideal, 2),
				Delta:        round(delta, 2),
				DeltaPercent: deltaPercent,
			}
			pc.MetricsDistance += math.Abs(delta)
			numMetrics++
		}

		if numMetrics > 0 {
			pc.AvgMetricDistance = round(pc.MetricsDistance/float64(numMetrics), 2)
		}

		switch {
		case pc.MetricsDistance < excellentFitDistance:
			pc.Fit = FitExcellent
		case pc.MetricsDistance < goodFitDistance:
			pc.Fit = FitGood
		default:
			pc.Fit = FitSignificant
		}

		out.Profiles[key] = pc
	}

	return out
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
