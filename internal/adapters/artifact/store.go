// Package artifact persists pipeline outputs under the data directory:
// JSON artifacts for profiles, analyses and predictions, CSV files for
// synthetic datasets, and the trained model components.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/targets"
	"github.com/okian/stride/internal/ml"
)

// Artifact file names, relative to the store root.
const (
	ProfileFile    = "running_profile.json"
	AnalysisFile   = "form_analysis.json"
	TargetsFile    = "target_profiles.json"
	ComparisonFile = "profile_comparison.json"
	PredictionFile = "prediction_results.json"
	TipsFile       = "ai_tips.json"

	SyntheticDirName = "synthetic"
	CombinedCSVName  = "synthetic_all_profiles.csv"

	ModelsDirName   = "models"
	ModelFile       = "form_model.json"
	ScalerFile      = "feature_scaler.json"
	FeatureInfoFile = "feature_info.json"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store reads and writes pipeline artifacts under a root directory.
type Store struct {
	root string
}

// Option configures a Store.
type Option func(*Store)

// WithRoot sets the data directory the store works under.
func WithRoot(root string) Option {
	return func(s *Store) {
		if root != "" {
			s.root = root
		}
	}
}

// New creates a Store rooted at "data" unless overridden.
func New(opts ...Option) *Store {
	s := &Store{root: "data"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store's data directory.
func (s *Store) Root() string { return s.root }

// SyntheticDir returns the synthetic dataset directory.
func (s *Store) SyntheticDir() string { return filepath.Join(s.root, SyntheticDirName) }

// ModelsDir returns the trained model directory.
func (s *Store) ModelsDir() string { return filepath.Join(s.root, ModelsDirName) }

// EnsureLayout creates the directory tree the pipeline writes into.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{
		s.root,
		s.SyntheticDir(),
		s.ModelsDir(),
		filepath.Join(s.root, "csv"),
		filepath.Join(s.root, "fit"),
		filepath.Join(s.root, "splits"),
	} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLayout, dir, err)
		}
	}
	return nil
}

// Exists reports whether a file exists relative to the store root.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.root, rel))
	return err == nil
}

func (s *Store) saveJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, rel, err)
	}
	path := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLayout, rel, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	return nil
}

func (s *Store) loadJSON(rel string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return fmt.Errorf("%w: %s: %w", ErrRead, rel, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, rel, err)
	}
	return nil
}

// SaveProfile persists the aggregated running profile.
func (s *Store) SaveProfile(p model.RunningProfile) error {
	return s.saveJSON(ProfileFile, p)
}

// LoadProfile reads the aggregated running profile.
func (s *Store) LoadProfile() (model.RunningProfile, error) {
	var p model.RunningProfile
	err := s.loadJSON(ProfileFile, &p)
	return p, err
}

// SaveAnalysis persists the form analysis.
func (s *Store) SaveAnalysis(a model.FormAnalysis) error {
	return s.saveJSON(AnalysisFile, a)
}

// LoadAnalysis reads the form analysis.
func (s *Store) LoadAnalysis() (model.FormAnalysis, error) {
	var a model.FormAnalysis
	err := s.loadJSON(AnalysisFile, &a)
	return a, err
}

// SaveTargets persists the archetype table keyed by archetype.
func (s *Store) SaveTargets() error {
	out := make(map[string]targets.Profile, len(targets.Keys()))
	for _, p := range targets.All() {
		out[p.Key] = p
	}
	return s.saveJSON(TargetsFile, out)
}

// SaveComparison persists the archetype comparison for the current profile.
func (s *Store) SaveComparison(c targets.Comparison) error {
	return s.saveJSON(ComparisonFile, c)
}

// LoadComparison reads the archetype comparison.
func (s *Store) LoadComparison() (targets.Comparison, error) {
	var c targets.Comparison
	err := s.loadJSON(ComparisonFile, &c)
	return c, err
}

// SavePrediction persists the gap prediction result.
func (s *Store) SavePrediction(p model.Prediction) error {
	return s.saveJSON(PredictionFile, p)
}

// LoadPrediction reads the gap prediction result.
func (s *Store) LoadPrediction() (model.Prediction, error) {
	var p model.Prediction
	err := s.loadJSON(PredictionFile, &p)
	return p, err
}

// SaveTips persists the generated training plan.
func (s *Store) SaveTips(t model.TipsOutput) error {
	return s.saveJSON(TipsFile, t)
}

// LoadTips reads the generated training plan.
func (s *Store) LoadTips() (model.TipsOutput, error) {
	var t model.TipsOutput
	err := s.loadJSON(TipsFile, &t)
	return t, err
}

// SaveModel persists the trained model as three files so the scaler and
// feature order can be inspected independently.
func (s *Store) SaveModel(fm *ml.FormModel) error {
	if err := s.saveJSON(filepath.Join(ModelsDirName, ModelFile), fm.Ridge); err != nil {
		return err
	}
	if err := s.saveJSON(filepath.Join(ModelsDirName, ScalerFile), fm.Scaler); err != nil {
		return err
	}
	return s.saveJSON(filepath.Join(ModelsDirName, FeatureInfoFile), map[string][]string{
		"feature_columns": fm.Columns,
	})
}

// LoadModel reads the trained model back.
func (s *Store) LoadModel() (*ml.FormModel, error) {
	var fm ml.FormModel
	if err := s.loadJSON(filepath.Join(ModelsDirName, ModelFile), &fm.Ridge); err != nil {
		return nil, err
	}
	if err := s.loadJSON(filepath.Join(ModelsDirName, ScalerFile), &fm.Scaler); err != nil {
		return nil, err
	}
	var info map[string][]string
	if err := s.loadJSON(filepath.Join(ModelsDirName, FeatureInfoFile), &info); err != nil {
		return nil, err
	}
	fm.Columns = info["feature_columns"]
	return &fm, nil
}

// syntheticHeader is the column order of synthetic dataset CSV files.
var syntheticHeader = []string{
	"activity_id", "week", "day", "date",
	"distance_km", "duration_min", "pace_min_km",
	"cadence_spm", "vertical_oscillation_cm", "ground_contact_time_ms",
	"step_speed_loss_pct", "heart_rate_bpm",
	"power_watts", "aerobic_te", "improvement_phase", "target_profile",
}

// SaveSyntheticCSV writes one dataset under the synthetic directory.
func (s *Store) SaveSyntheticCSV(name string, runs []model.SyntheticRun) error {
	rel := filepath.Join(SyntheticDirName, name)
	path := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLayout, rel, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(syntheticHeader); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	for _, run := range runs {
		record := []string{
			run.ActivityID,
			strconv.Itoa(run.Week),
			strconv.Itoa(run.Day),
			run.Date,
			formatFloat(run.DistanceKM),
			formatFloat(run.DurationMin),
			formatFloat(run.PaceMinKM),
			formatFloat(run.CadenceSPM),
			formatFloat(run.VerticalOscCM),
			formatFloat(run.GroundContactMS),
			formatFloat(run.StepSpeedLossPct),
			formatFloat(run.HeartRateBPM),
			formatFloat(run.PowerW),
			formatFloat(run.AerobicTE),
			run.ImprovementPhase,
			run.TargetProfile,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	return nil
}

// LoadSyntheticCSV reads a dataset back from the synthetic directory.
func (s *Store) LoadSyntheticCSV(name string) ([]model.SyntheticRun, error) {
	rel := filepath.Join(SyntheticDirName, name)
	f, err := os.Open(filepath.Join(s.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, rel, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, rel, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrDecode, rel)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}

	runs := make([]model.SyntheticRun, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		week, _ := strconv.Atoi(get("week"))
		day, _ := strconv.Atoi(get("day"))
		runs = append(runs, model.SyntheticRun{
			ActivityID:       get("activity_id"),
			Week:             week,
			Day:              day,
			Date:             get("date"),
			DistanceKM:       parseFloat(get("distance_km")),
			DurationMin:      parseFloat(get("duration_min")),
			PaceMinKM:        parseFloat(get("pace_min_km")),
			CadenceSPM:       parseFloat(get("cadence_spm")),
			VerticalOscCM:    parseFloat(get("vertical_oscillation_cm")),
			GroundContactMS:  parseFloat(get("ground_contact_time_ms")),
			StepSpeedLossPct: parseFloat(get("step_speed_loss_pct")),
			HeartRateBPM:     parseFloat(get("heart_rate_bpm")),
			PowerW:           parseFloat(get("power_watts")),
			AerobicTE:        parseFloat(get("aerobic_te")),
			ImprovementPhase: get("improvement_phase"),
			TargetProfile:    get("target_profile"),
		})
	}
	return runs, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
