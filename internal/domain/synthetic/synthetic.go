// Package synthetic generates training progression datasets. Starting from a
// runner's current profile it interpolates each form metric toward a target
// archetype over a number of weeks, layering week-dependent noise so the
// resulting runs look like real training data. The datasets feed the form
// model trainer.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/targets"
)

// Generation defaults.
const (
	DefaultWeeks       = 16
	DefaultRunsPerWeek = 3
	DefaultNoiseLevel  = 0.08

	// Synthetic run envelope.
	minDistanceKM  = 4.0
	maxDistanceKM  = 12.0
	minDurationMin = 30.0
	maxDurationMin = 80.0

	// Power and training effect are derived from cadence and heart rate
	// around these baselines.
	basePowerW        = 200.0
	baseCadenceSPM    = 160.0
	baseHeartRateBPM  = 140.0
	powerPerCadence   = 2.0
	powerPerHeartRate = 0.5
	baseAerobicTE     = 1.5
	tePerHeartRate    = 0.05
	minAerobicTE      = 1.0
	maxAerobicTE      = 5.0

	// Improvement phase cut points on normalized cadence progress.
	earlyPhaseCutoff = 0.33
	midPhaseCutoff   = 0.67

	// firstRunID seeds the per-dataset activity id sequence.
	firstRunID = 1000

	syntheticYear = 2025
)

// Generator produces synthetic progression datasets.
type Generator struct {
	weeks       int
	runsPerWeek int
	noiseLevel  float64
	rng         *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithWeeks sets the progression length in weeks.
func WithWeeks(weeks int) Option {
	return func(g *Generator) {
		if weeks > 0 {
			g.weeks = weeks
		}
	}
}

// WithRunsPerWeek sets how many runs each week contains.
func WithRunsPerWeek(runs int) Option {
	return func(g *Generator) {
		if runs > 0 {
			g.runsPerWeek = runs
		}
	}
}

// WithNoiseLevel sets the noise amplitude as a fraction of the metric's
// total progression distance.
func WithNoiseLevel(level float64) Option {
	return func(g *Generator) {
		if level >= 0 {
			g.noiseLevel = level
		}
	}
}

// WithRand sets the random source, fixing it makes generation reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// New creates a Generator with the default progression shape.
func New(opts ...Option) *Generator {
	g := &Generator{
		weeks:       DefaultWeeks,
		runsPerWeek: DefaultRunsPerWeek,
		noiseLevel:  DefaultNoiseLevel,
		rng:         rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Interpolate produces the weekly values of one metric moving linearly from
// current to target, with noise that shrinks as the progression completes.
// The slice has one value per week, rounded to two decimals.
func (g *Generator) Interpolate(current, target float64) []float64 {
	values := make([]float64, 0, g.weeks)
	for week := 1; week <= g.weeks; week++ {
		progress := float64(week) / float64(g.weeks)
		value := current + (target-current)*progress

		noiseStd := g.noiseLevel * math.Abs(current-target) * (1 - progress*0.5)
		value += g.rng.NormFloat64() * noiseStd

		values = append(values, round(value, 2))
	}
	return values
}

// progressionMetrics maps each synthetic run field to the profile field it
// starts from and the archetype metric whose ideal it converges to. Heart
// rate converges to the hr_efficiency ideal, treating that percentage as the
// steady-state working heart rate share.
var progressionMetrics = []struct {
	key       string
	current   func(model.RunningProfile) float64
	targetKey string
}{
	{"cadence_spm", func(p model.RunningProfile) float64 { return p.AvgCadence }, "cadence_spm"},
	{"vertical_oscillation_cm", func(p model.RunningProfile) float64 { return p.AvgVerticalOsc }, "vertical_oscillation_cm"},
	{"ground_contact_time_ms", func(p model.RunningProfile) float64 { return p.AvgGroundContact }, "ground_contact_time_ms"},
	{"step_speed_loss_pct", func(p model.RunningProfile) float64 { return p.AvgStepSpeedLossPct }, "step_speed_loss_percent"},
	{"heart_rate_bpm", func(p model.RunningProfile) float64 { return p.AvgHR }, "hr_efficiency"},
}

// Progression generates one dataset of runs converging from the current
// profile toward the target archetype.
func (g *Generator) Progression(current model.RunningProfile, target targets.Profile) []model.SyntheticRun {
	progressions := make(map[string][]float64, len(progressionMetrics))
	for _, pm := range progressionMetrics {
		rng, ok := target.Metrics[pm.targetKey]
		if !ok {
			continue
		}
		progressions[pm.key] = g.Interpolate(pm.current(current), rng.Ideal)
	}

	cadence := progressions["cadence_spm"]

	runs := make([]model.SyntheticRun, 0, g.weeks*g.runsPerWeek)
	runID := firstRunID
	for week := 1; week <= g.weeks; week++ {
		for day := 0; day < g.runsPerWeek; day++ {
			runID++

			run := model.SyntheticRun{
				ActivityID: fmt.Sprintf("synthetic_%d", runID),
				Week:       week,
				Day:        day + 1,
				Date:       fmt.Sprintf("%d-%02d-%02d", syntheticYear, week%52+1, (day+1)*2),
				DistanceKM: round(g.uniform(minDistanceKM, maxDistanceKM), 2),
			}
			run.DurationMin = round(g.uniform(minDurationMin, maxDurationMin), 1)
			run.PaceMinKM = round(run.DurationMin/run.DistanceKM, 2)

			run.CadenceSPM = weekValue(progressions["cadence_spm"], week)
			run.VerticalOscCM = weekValue(progressions["vertical_oscillation_cm"], week)
			run.GroundContactMS = weekValue(progressions["ground_contact_time_ms"], week)
			run.StepSpeedLossPct = weekValue(progressions["step_speed_loss_pct"], week)
			run.HeartRateBPM = weekValue(progressions["heart_rate_bpm"], week)

			run.PowerW = math.Round(basePowerW +
				(run.CadenceSPM-baseCadenceSPM)*powerPerCadence +
				(run.HeartRateBPM-baseHeartRateBPM)*powerPerHeartRate)

			te := baseAerobicTE + (run.HeartRateBPM-baseHeartRateBPM)*tePerHeartRate
			run.AerobicTE = round(math.Min(maxAerobicTE, math.Max(minAerobicTE, te)), 1)

			run.ImprovementPhase = phaseFor(run.CadenceSPM, cadence)

			runs = append(runs, run)
		}
	}
	return runs
}

// Dataset is one archetype's generated progression.
type Dataset struct {
	ProfileKey  string
	ProfileName string
	Runs        []model.SyntheticRun
}

// AllProfiles generates a dataset per archetype in key order.
func (g *Generator) AllProfiles(current model.RunningProfile) []Dataset {
	out := make([]Dataset, 0, len(targets.Keys()))
	for _, profile := range targets.All() {
		out = append(out, Dataset{
			ProfileKey:  profile.Key,
			ProfileName: profile.Name,
			Runs:        g.Progression(current, profile),
		})
	}
	return out
}

// Combine flattens datasets into one training set, tagging every run with
// the archetype it converges to.
func Combine(datasets []Dataset) []model.SyntheticRun {
	total := 0
	for _, ds := range datasets {
		total += len(ds.Runs)
	}
	combined := make([]model.SyntheticRun, 0, total)
	for _, ds := range datasets {
		for _, run := range ds.Runs {
			run.TargetProfile = ds.ProfileName
			combined = append(combined, run)
		}
	}
	return combined
}

// phaseFor labels a run by how far its cadence sits along the progression,
// normalized against the first and last weekly cadence values.
func phaseFor(cadence float64, progression []float64) string {
	if len(progression) == 0 {
		return "early"
	}
	first := progression[0]
	last := progression[len(progression)-1]
	// Small denominator guard for flat progressions.
	improvement := (cadence - first) / (last - first + 0.001)
	switch {
	case improvement < earlyPhaseCutoff:
		return "early"
	case improvement < midPhaseCutoff:
		return "mid"
	default:
		return "advanced"
	}
}

func weekValue(values []float64, week int) float64 {
	if len(values) == 0 {
		return 0
	}
	if week <= len(values) {
		return values[week-1]
	}
	return values[len(values)-1]
}

func (g *Generator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
