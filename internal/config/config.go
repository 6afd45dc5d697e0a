// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Everything tunable lives here; no package-level path constants elsewhere.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"path/filepath"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the root of all pipeline inputs and artifacts. Subdirectories
	// (fit/, csv/, splits/, synthetic/, models/) hang off it.
	DataDir string `koanf:"data_dir"`

	// SyntheticWeeks is the length of a generated training progression.
	SyntheticWeeks int `koanf:"synthetic_weeks"`

	// SyntheticRunsPerWeek is the number of runs synthesized per week. This is
	// the single source of truth for synthetic dataset sizing.
	SyntheticRunsPerWeek int `koanf:"synthetic_runs_per_week"`

	// SyntheticNoiseLevel scales the Gaussian noise applied to interpolated
	// progression values.
	SyntheticNoiseLevel float64 `koanf:"synthetic_noise_level"`

	// SyntheticSeed seeds the progression generator. Zero means seed from the
	// clock; any other value makes generation reproducible.
	SyntheticSeed int64 `koanf:"synthetic_seed"`

	// RidgeLambda is the L2 penalty used when training the form-score model.
	RidgeLambda float64 `koanf:"ridge_lambda"`

	// FITRecentFiles bounds how many FIT files are converted per run.
	FITRecentFiles int `koanf:"fit_recent_files"`
}

// Default values for synthetic progression generation.
const (
	defaultSyntheticWeeks       = 16
	defaultSyntheticRunsPerWeek = 3
	defaultSyntheticNoiseLevel  = 0.08
	defaultRidgeLambda          = 1.0
	defaultFITRecentFiles       = 3
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		DataDir:              "data",
		SyntheticWeeks:       defaultSyntheticWeeks,
		SyntheticRunsPerWeek: defaultSyntheticRunsPerWeek,
		SyntheticNoiseLevel:  defaultSyntheticNoiseLevel,
		SyntheticSeed:        0,
		RidgeLambda:          defaultRidgeLambda,
		FITRecentFiles:       defaultFITRecentFiles,
	}
}

// FITDir returns the directory holding raw FIT exports.
func (c *Config) FITDir() string { return filepath.Join(c.DataDir, "fit") }

// CSVDir returns the directory holding per-activity converted CSVs.
func (c *Config) CSVDir() string { return filepath.Join(c.DataDir, "csv") }

// SplitsDir returns the directory holding per-km splits CSVs.
func (c *Config) SplitsDir() string { return filepath.Join(c.DataDir, "splits") }

// SyntheticDir returns the directory holding generated progression CSVs.
func (c *Config) SyntheticDir() string { return filepath.Join(c.DataDir, "synthetic") }

// ModelsDir returns the directory holding trained model artifacts.
func (c *Config) ModelsDir() string { return filepath.Join(c.DataDir, "models") }
