// Package injury serves return-to-running protocols for common running
// injuries, personalized by reported pain level.
package injury

import (
	"fmt"
	"strings"
)

// Personalization thresholds.
const (
	// highPainLevel extends the recovery window.
	highPainLevel      = 7
	highPainExtraWeeks = 2
	maxPainLevel       = 10
)

// Protocol is the rehabilitation plan for one injury type.
type Protocol struct {
	RecoveryWeeks [2]int   `json:"recovery_weeks"`
	LoadRules     []string `json:"load_rules"`
	Exercises     []string `json:"exercises"`
	ReturnToRun   []string `json:"return_to_run"`
}

var protocols = map[string]Protocol{
	"achilles": {
		RecoveryWeeks: [2]int{4, 8},
		LoadRules: []string{
			"Reduce weekly volume by 30-50% for the first 2 weeks",
			"Avoid hills and speed work until pain < 2/10",
			"Increase load by max 10% per week",
		},
		Exercises: []string{
			"Eccentric heel drops: 3x15 twice daily",
			"Seated calf raises: 3x12 moderate load",
			"Isometric calf holds: 5x45s",
		},
		ReturnToRun: []string{
			"Pain <= 2/10 during and after easy runs",
			"No morning stiffness increase for 3 consecutive days",
		},
	},
}

// Request describes the injury being consulted about.
type Request struct {
	InjuryType      string  `json:"injury_type"`
	PainLevel       int     `json:"pain_level"`
	OnsetDays       int     `json:"onset_days"`
	CurrentWeeklyKM float64 `json:"current_weekly_km"`
}

// Plan is the personalized protocol returned to the runner.
type Plan struct {
	RecoveryTimeWeeks    [2]int   `json:"recovery_time_weeks"`
	LoadAdjustments      []string `json:"load_adjustments"`
	RecommendedExercises []string `json:"recommended_exercises"`
	ReturnToRunCriteria  []string `json:"return_to_run_criteria"`
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.InjuryType) == "" {
		return fmt.Errorf("%w: injury_type is required", ErrInvalidRequest)
	}
	if r.PainLevel < 0 || r.PainLevel > maxPainLevel {
		return fmt.Errorf("%w: pain_level must be 0-%d", ErrInvalidRequest, maxPainLevel)
	}
	if r.OnsetDays < 0 {
		return fmt.Errorf("%w: onset_days must not be negative", ErrInvalidRequest)
	}
	if r.CurrentWeeklyKM < 0 {
		return fmt.Errorf("%w: current_weekly_km must not be negative", ErrInvalidRequest)
	}
	return nil
}

// PlanFor builds a personalized plan for the request. High pain levels extend
// the upper recovery bound.
func PlanFor(req Request) (Plan, error) {
	if err := req.Validate(); err != nil {
		return Plan{}, err
	}
	protocol, ok := protocols[strings.ToLower(strings.TrimSpace(req.InjuryType))]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownInjury, req.InjuryType)
	}

	weeks := protocol.RecoveryWeeks
	if req.PainLevel >= highPainLevel {
		weeks[1] += highPainExtraWeeks
	}

	return Plan{
		RecoveryTimeWeeks:    weeks,
		LoadAdjustments:      protocol.LoadRules,
		RecommendedExercises: protocol.Exercises,
		ReturnToRunCriteria:  protocol.ReturnToRun,
	}, nil
}

// Types returns the known injury types.
func Types() []string {
	out := make([]string, 0, len(protocols))
	for k := range protocols {
		out = append(out, k)
	}
	return out
}
