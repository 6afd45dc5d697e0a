// Package service orchestrates the analysis pipeline behind the HTTP API and
// the CLI. It wires ingestion, scoring, synthetic data generation, model
// training and gap prediction into numbered phases that can run independently.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/stride/internal/adapters/artifact"
	"github.com/okian/stride/internal/config"
	"github.com/okian/stride/internal/domain/gaps"
	"github.com/okian/stride/internal/domain/injury"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/scoring"
	"github.com/okian/stride/internal/domain/synthetic"
	"github.com/okian/stride/internal/domain/targets"
	"github.com/okian/stride/internal/domain/tips"
	"github.com/okian/stride/internal/ingest"
	"github.com/okian/stride/internal/ingest/fitconv"
	"github.com/okian/stride/internal/ml"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Pipeline phase numbers.
const (
	PhaseIngest  = 1
	PhaseAnalyze = 2
	PhaseTrain   = 3
	PhasePredict = 4
)

// AllPhases lists every phase in execution order.
var AllPhases = []int{PhaseIngest, PhaseAnalyze, PhaseTrain, PhasePredict}

// phaseNames maps phase numbers to the labels used in results and metrics.
var phaseNames = map[int]string{
	PhaseIngest:  "ingest",
	PhaseAnalyze: "analysis",
	PhaseTrain:   "training",
	PhasePredict: "prediction",
}

// Phase outcome statuses.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
	StatusDryRun  = "dry_run"
)

// Skip reasons.
const (
	ReasonNoFITFiles      = "no_fit_files"
	ReasonNoActivities    = "no_activities_file"
	ReasonNoProfile       = "no_running_profile"
	ReasonNoSyntheticData = "no_synthetic_data"
)

// ActivitiesFileName is the Garmin export the pipeline ingests.
const ActivitiesFileName = "Activities.csv"

// SplitsFileName is the per-km splits export.
const SplitsFileName = "splits.csv"

// PhaseResult records the outcome of one phase in a pipeline run.
type PhaseResult struct {
	Phase           int     `json:"phase"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason,omitempty"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RunReport is the outcome of a pipeline run.
type RunReport struct {
	RunID   string              `json:"run_id"`
	Results map[int]PhaseResult `json:"results"`
}

// RunOptions selects which phases a run executes.
type RunOptions struct {
	// Phases to run; empty means all of them.
	Phases []int
	// SkipPhases are excluded even when listed in Phases.
	SkipPhases []int
	// DryRun reports what would execute without touching anything.
	DryRun bool
}

// Service runs the analysis pipeline over a data directory.
type Service struct {
	cfg    *config.Config
	store  *artifact.Store
	scorer *scoring.Scorer
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the pipeline configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithStore sets the artifact store.
func WithStore(store *artifact.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets the form scorer.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = artifact.New(artifact.WithRoot(s.cfg.DataDir))
	}
	if s.scorer == nil {
		s.scorer = scoring.New()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Store returns the artifact store backing the service.
func (s *Service) Store() *artifact.Store { return s.store }

// Run executes the selected pipeline phases in order. A failing phase is
// recorded and the run continues; the first failure in a fatal phase is
// returned at the end, analysis and training failures only warn.
func (s *Service) Run(ctx context.Context, opts RunOptions) (RunReport, error) {
	report := RunReport{
		RunID:   uuid.NewString(),
		Results: make(map[int]PhaseResult),
	}

	selected := selectPhases(opts)
	s.logger.Info(ctx, "pipeline run starting",
		logger.String("run_id", report.RunID),
		logger.Any("phases", selected),
		logger.Any("dry_run", opts.DryRun))

	if err := s.store.EnsureLayout(); err != nil {
		return report, fmt.Errorf("prepare data directory: %w", err)
	}

	var firstErr error
	for _, phase := range selected {
		name := phaseNames[phase]
		if opts.DryRun {
			report.Results[phase] = PhaseResult{Phase: phase, Name: name, Status: StatusDryRun}
			continue
		}

		start := time.Now()
		status, reason, err := s.runPhase(ctx, phase)
		elapsed := time.Since(start).Seconds()

		result := PhaseResult{
			Phase:           phase,
			Name:            name,
			Status:          status,
			Reason:          reason,
			DurationSeconds: elapsed,
		}
		if err != nil {
			result.Status = StatusError
			result.Error = err.Error()
		}
		report.Results[phase] = result

		metrics.RecordPhaseRun(name, result.Status)
		metrics.RecordPhaseDuration(name, elapsed)

		if err != nil {
			if phaseFatal(phase) {
				s.logger.Error(ctx, "phase failed",
					logger.String("run_id", report.RunID),
					logger.String("phase", name),
					logger.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("phase %d (%s): %w", phase, name, err)
				}
			} else {
				s.logger.Warn(ctx, "phase failed, continuing",
					logger.String("run_id", report.RunID),
					logger.String("phase", name),
					logger.Error(err))
			}
			continue
		}
		s.logger.Info(ctx, "phase finished",
			logger.String("run_id", report.RunID),
			logger.String("phase", name),
			logger.String("status", result.Status),
			logger.Float64("seconds", elapsed))
	}

	return report, firstErr
}

// phaseFatal reports whether a failure in the phase makes the whole run fail.
// Analysis and training failures are tolerated so a partial data directory
// still produces whatever artifacts it can.
func phaseFatal(phase int) bool {
	return phase == PhaseIngest || phase == PhasePredict
}

// Summary renders a run report as human-readable lines, one per phase.
func (r RunReport) Summary() []string {
	lines := make([]string, 0, len(r.Results))
	for _, phase := range AllPhases {
		result, ok := r.Results[phase]
		if !ok {
			continue
		}
		line := fmt.Sprintf("phase %d (%s): %s", result.Phase, result.Name, result.Status)
		if result.Reason != "" {
			line += " (" + result.Reason + ")"
		}
		if result.Error != "" {
			line += ": " + result.Error
		}
		lines = append(lines, line)
	}
	return lines
}

func selectPhases(opts RunOptions) []int {
	wanted := opts.Phases
	if len(wanted) == 0 {
		wanted = AllPhases
	}
	skip := make(map[int]bool, len(opts.SkipPhases))
	for _, p := range opts.SkipPhases {
		skip[p] = true
	}
	selected := make([]int, 0, len(AllPhases))
	for _, p := range AllPhases {
		if skip[p] {
			continue
		}
		for _, w := range wanted {
			if w == p {
				selected = append(selected, p)
				break
			}
		}
	}
	return selected
}

func (s *Service) runPhase(ctx context.Context, phase int) (status, reason string, err error) {
	switch phase {
	case PhaseIngest:
		return s.runIngest(ctx)
	case PhaseAnalyze:
		return s.runAnalysis(ctx)
	case PhaseTrain:
		return s.runTraining(ctx)
	case PhasePredict:
		return s.runPrediction(ctx)
	default:
		return StatusError, "", fmt.Errorf("%w: %d", ErrUnknownPhase, phase)
	}
}

// runIngest converts recent FIT files and aggregates the Garmin activities
// export into a running profile. A missing FIT directory only downgrades the
// status; the profile is still built from Activities.csv.
func (s *Service) runIngest(ctx context.Context) (string, string, error) {
	status := StatusSuccess
	reason := ""

	if countFITFiles(s.cfg.FITDir()) == 0 {
		status = StatusSkipped
		reason = ReasonNoFITFiles
		s.logger.Info(ctx, "no fit files to convert", logger.String("dir", s.cfg.FITDir()))
	} else {
		summaries, err := fitconv.ConvertRecent(ctx, s.cfg.FITDir(), s.cfg.CSVDir(), s.cfg.FITRecentFiles)
		if err != nil {
			return StatusError, "", fmt.Errorf("convert fit files: %w", err)
		}
		s.logger.Info(ctx, "fit conversion done", logger.Int("converted", len(summaries)))
	}

	path := filepath.Join(s.cfg.CSVDir(), ActivitiesFileName)
	activities, err := ingest.LoadActivities(ctx, path)
	if err != nil {
		if errors.Is(err, ingest.ErrNoActivitiesFile) {
			s.logger.Warn(ctx, "activities export missing, skipping profile build",
				logger.String("file", path))
			return StatusSkipped, ReasonNoActivities, nil
		}
		return StatusError, "", err
	}
	profile, err := ingest.Aggregate(activities)
	if err != nil {
		return StatusError, "", err
	}
	if err := s.store.SaveProfile(profile); err != nil {
		return StatusError, "", err
	}
	return status, reason, nil
}

// runAnalysis scores the running profile, persists the archetype targets and
// the profile comparison, and generates the synthetic training datasets. It
// runs the ingest phase first when the profile artifact is missing.
func (s *Service) runAnalysis(ctx context.Context) (string, string, error) {
	if !s.store.Exists(artifact.ProfileFile) {
		if _, _, err := s.runIngest(ctx); err != nil {
			return StatusError, "", fmt.Errorf("auto ingest: %w", err)
		}
	}
	if !s.store.Exists(artifact.ProfileFile) {
		s.logger.Warn(ctx, "running profile missing, skipping analysis")
		return StatusSkipped, ReasonNoProfile, nil
	}
	profile, err := s.store.LoadProfile()
	if err != nil {
		return StatusError, "", err
	}

	analysis, err := s.scorer.Analyze(profile)
	if err != nil {
		return StatusError, "", err
	}
	if err := s.store.SaveAnalysis(analysis); err != nil {
		return StatusError, "", err
	}
	metrics.UpdateFormScore(analysis.OverallScore)
	s.logger.Info(ctx, "form analysis saved",
		logger.Float64("overall_score", analysis.OverallScore),
		logger.Int("recommendations", len(analysis.Recommendations)))

	if err := s.store.SaveTargets(); err != nil {
		return StatusError, "", err
	}
	comparison := targets.Compare(targets.CurrentMetrics(profile))
	if err := s.store.SaveComparison(comparison); err != nil {
		return StatusError, "", err
	}

	generator := s.newGenerator()
	datasets := generator.AllProfiles(profile)
	for _, ds := range datasets {
		name := fmt.Sprintf("synthetic_%s.csv", ds.ProfileKey)
		if err := s.store.SaveSyntheticCSV(name, ds.Runs); err != nil {
			return StatusError, "", err
		}
	}
	combined := synthetic.Combine(datasets)
	if err := s.store.SaveSyntheticCSV(artifact.CombinedCSVName, combined); err != nil {
		return StatusError, "", err
	}
	metrics.RecordSyntheticRuns(len(combined))
	s.logger.Info(ctx, "synthetic datasets saved",
		logger.Int("profiles", len(datasets)),
		logger.Int("runs", len(combined)))
	return StatusSuccess, "", nil
}

// runTraining fits the form-score model on the combined synthetic dataset.
// The analysis phase is run first when the dataset is missing.
func (s *Service) runTraining(ctx context.Context) (string, string, error) {
	combinedRel := filepath.Join(artifact.SyntheticDirName, artifact.CombinedCSVName)
	if !s.store.Exists(combinedRel) {
		if _, _, err := s.runAnalysis(ctx); err != nil {
			return StatusError, "", fmt.Errorf("auto analysis: %w", err)
		}
	}
	if !s.store.Exists(combinedRel) {
		s.logger.Warn(ctx, "synthetic dataset missing, skipping training")
		return StatusSkipped, ReasonNoSyntheticData, nil
	}
	runs, err := s.store.LoadSyntheticCSV(artifact.CombinedCSVName)
	if err != nil {
		return StatusError, "", err
	}

	formModel, trainMetrics, err := ml.Train(runs, s.cfg.RidgeLambda)
	if err != nil {
		return StatusError, "", err
	}
	if err := s.store.SaveModel(formModel); err != nil {
		return StatusError, "", err
	}
	s.logger.Info(ctx, "model trained",
		logger.Int("samples", len(runs)),
		logger.Float64("test_r2", trainMetrics.TestR2),
		logger.Float64("test_rmse", trainMetrics.TestRMSE))
	return StatusSuccess, "", nil
}

// runPrediction scores the most recent activity against the trained model and
// turns the metric gaps into a weekly training plan. The training phase is run
// first when the model artifacts are missing.
func (s *Service) runPrediction(ctx context.Context) (string, string, error) {
	modelRel := filepath.Join(artifact.ModelsDirName, artifact.ModelFile)
	if !s.store.Exists(modelRel) {
		if _, _, err := s.runTraining(ctx); err != nil {
			return StatusError, "", fmt.Errorf("auto training: %w", err)
		}
	}
	formModel, err := s.store.LoadModel()
	if err != nil {
		return StatusError, "", err
	}

	activities, err := ingest.LoadActivities(ctx, filepath.Join(s.cfg.CSVDir(), ActivitiesFileName))
	if err != nil {
		return StatusError, "", err
	}
	latest, err := ingest.Latest(activities)
	if err != nil {
		return StatusError, "", err
	}

	prediction, err := gaps.New(formModel).Predict(latest)
	if err != nil {
		return StatusError, "", err
	}
	if err := s.store.SavePrediction(prediction); err != nil {
		return StatusError, "", err
	}
	metrics.RecordPredictionScore(prediction.FormScore)

	plan := tips.Generate(prediction)
	if err := s.store.SaveTips(plan); err != nil {
		return StatusError, "", err
	}
	s.logger.Info(ctx, "prediction saved",
		logger.Float64("form_score", prediction.FormScore),
		logger.String("category", prediction.DistanceCategory))
	return StatusSuccess, "", nil
}

// newGenerator builds a synthetic data generator from the configuration.
func (s *Service) newGenerator() *synthetic.Generator {
	opts := []synthetic.Option{
		synthetic.WithWeeks(s.cfg.SyntheticWeeks),
		synthetic.WithRunsPerWeek(s.cfg.SyntheticRunsPerWeek),
		synthetic.WithNoiseLevel(s.cfg.SyntheticNoiseLevel),
	}
	if s.cfg.SyntheticSeed != 0 {
		opts = append(opts, synthetic.WithRand(rand.New(rand.NewSource(s.cfg.SyntheticSeed))))
	}
	return synthetic.New(opts...)
}

// Tips returns the stored training plan from the last prediction.
func (s *Service) Tips() (model.TipsOutput, error) {
	return s.store.LoadTips()
}

// Analysis returns the stored form analysis.
func (s *Service) Analysis() (model.FormAnalysis, error) {
	return s.store.LoadAnalysis()
}

// InjuryPlan validates an injury report and returns its recovery plan.
func (s *Service) InjuryPlan(ctx context.Context, req injury.Request) (injury.Plan, error) {
	plan, err := injury.PlanFor(req)
	if err != nil {
		return injury.Plan{}, err
	}
	s.logger.Info(ctx, "injury plan generated",
		logger.String("type", strings.ToLower(req.InjuryType)),
		logger.Int("pain_level", req.PainLevel))
	return plan, nil
}

// AnalyzeSplits loads the splits export and summarizes per-km pacing trends.
func (s *Service) AnalyzeSplits(ctx context.Context, activityID string) (ingest.SplitAnalysis, error) {
	splits, err := ingest.LoadSplits(filepath.Join(s.cfg.CSVDir(), SplitsFileName))
	if err != nil {
		return ingest.SplitAnalysis{}, err
	}
	return ingest.AnalyzeSplits(splits, activityID)
}

// GetStats returns pipeline statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	artifacts := map[string]bool{
		artifact.ProfileFile:    s.store.Exists(artifact.ProfileFile),
		artifact.AnalysisFile:   s.store.Exists(artifact.AnalysisFile),
		artifact.TargetsFile:    s.store.Exists(artifact.TargetsFile),
		artifact.ComparisonFile: s.store.Exists(artifact.ComparisonFile),
		artifact.PredictionFile: s.store.Exists(artifact.PredictionFile),
		artifact.TipsFile:       s.store.Exists(artifact.TipsFile),
	}
	stats := map[string]interface{}{
		"data_dir":  s.cfg.DataDir,
		"artifacts": artifacts,
		"fit_files": countFITFiles(s.cfg.FITDir()),
	}
	if profile, err := s.store.LoadProfile(); err == nil {
		stats["num_activities"] = profile.NumActivities
		stats["total_distance_km"] = profile.TotalDistanceKM
	}
	if analysis, err := s.store.LoadAnalysis(); err == nil {
		stats["overall_score"] = analysis.OverallScore
	}
	return stats
}

// countFITFiles counts FIT files directly under dir.
func countFITFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			count++
		}
	}
	return count
}
