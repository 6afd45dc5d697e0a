// Package parse converts the loosely formatted fields found in Garmin CSV
// exports into plain numbers. Every parser returns an explicit error instead
// of a silent default so callers can distinguish "parsed zero" from "failed to
// parse" and choose their own fallback.
package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Fallbacks applied by callers when a field does not parse.
const (
	// DefaultGCTBalance is assumed when a GCT balance string is malformed:
	// a perfectly symmetric 50/50 split.
	DefaultGCTBalance = 50.0

	// DefaultPaceMinKM is the pace assumed by the gap predictor when the pace
	// column is malformed or missing.
	DefaultPaceMinKM = 5.5
)

// Duration parses a "HH:MM:SS" time string into total seconds.
func Duration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q is not HH:MM:SS", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedTime, s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedTime, s, err)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedTime, s, err)
	}
	return h*3600 + m*60 + sec, nil
}

// Pace parses a "M:SS" pace string into decimal minutes per kilometer,
// e.g. "5:51" -> 5.85.
func Pace(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty pace", ErrMalformedPace)
	}
	if !strings.Contains(trimmed, ":") {
		// Some exports carry the pace as a plain decimal already.
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrMalformedPace, s, err)
		}
		return v, nil
	}
	parts := strings.SplitN(trimmed, ":", 2)
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedPace, s, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedPace, s, err)
	}
	return float64(minutes) + float64(seconds)/60.0, nil
}

// GCTBalance parses a ground-contact balance string like "50.1% L / 49.9% R"
// into its left and right percentages.
func GCTBalance(s string) (left, right float64, err error) {
	cleaned := strings.ReplaceAll(s, "%", "")
	parts := strings.Split(cleaned, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedBalance, s)
	}
	left, err = strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(parts[0], "L", "")), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrMalformedBalance, s, err)
	}
	right, err = strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(parts[1], "R", "")), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrMalformedBalance, s, err)
	}
	return left, right, nil
}

// Float parses a numeric field, tolerating surrounding whitespace and the
// thousands separators Garmin puts in calorie counts.
func Float(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if trimmed == "" || trimmed == "--" {
		return 0, fmt.Errorf("%w: empty field", ErrMalformedNumber)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedNumber, s, err)
	}
	return v, nil
}

// FloatOr parses a numeric field and falls back to def when it is malformed.
func FloatOr(s string, def float64) float64 {
	v, err := Float(s)
	if err != nil {
		return def
	}
	return v
}
