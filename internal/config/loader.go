package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STRIDE_CONFIG is set
//  3. env (prefix STRIDE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STRIDE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: STRIDE_ADDR, STRIDE_DATA_DIR, ...
	// Map env keys like STRIDE_DATA_DIR -> data_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("STRIDE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "stride_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataDir == "":
		return nil, fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case cfg.SyntheticWeeks <= 0:
		return nil, fmt.Errorf("%w: synthetic_weeks must be positive", ErrInvalidConfig)
	case cfg.SyntheticRunsPerWeek <= 0:
		return nil, fmt.Errorf("%w: synthetic_runs_per_week must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
