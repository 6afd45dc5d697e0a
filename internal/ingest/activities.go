// Package ingest loads Garmin CSV exports and aggregates them into the
// running profile the rest of the pipeline consumes. Malformed fields fall
// back to neutral defaults instead of failing the whole import, each fallback
// is counted so a noisy export is visible in the metrics.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/parse"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Garmin Activities.csv column names.
const (
	colActivityType  = "Activity Type"
	colDate          = "Date"
	colTitle         = "Title"
	colDistance      = "Distance"
	colCalories      = "Calories"
	colTime          = "Time"
	colAvgHR         = "Avg HR"
	colMaxHR         = "Max HR"
	colAerobicTE     = "Aerobic TE"
	colAvgCadence    = "Avg Run Cadence"
	colMaxCadence    = "Max Run Cadence"
	colAvgPace       = "Avg Pace"
	colAvgPower      = "Avg Power"
	colAvgVertOsc    = "Avg Vertical Oscillation"
	colAvgVertRatio  = "Avg Vertical Ratio"
	colAvgGCT        = "Avg Ground Contact Time"
	colAvgSSL        = "Avg Step Speed Loss"
	colAvgSSLPct     = "Avg Step Speed Loss %"
	colAvgStride     = "Avg Stride Length"
	colAvgGCTBalance = "Avg GCT Balance"
)

const secondsPerHour = 3600.0

// LoadActivities reads a Garmin Activities.csv export.
func LoadActivities(ctx context.Context, path string) ([]model.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoActivitiesFile, path)
		}
		return nil, fmt.Errorf("open activities: %w", err)
	}
	defer f.Close()

	activities, err := ReadActivities(f)
	if err != nil {
		return nil, err
	}
	logger.Get().Info(ctx, "loaded activities",
		logger.String("path", path),
		logger.Int("count", len(activities)))
	metrics.RecordActivitiesIngested(len(activities))
	return activities, nil
}

// ReadActivities parses activity rows from CSV data with a header row.
func ReadActivities(r io.Reader) ([]model.Activity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var activities []model.Activity
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		activities = append(activities, parseRow(col, row))
	}
	return activities, nil
}

func parseRow(col map[string]int, row []string) model.Activity {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	num := func(name string) float64 {
		v, err := parse.Float(get(name))
		if err != nil {
			metrics.RecordParseFallback(name)
			return 0
		}
		return v
	}

	a := model.Activity{
		ActivityType:     get(colActivityType),
		Date:             get(colDate),
		Title:            get(colTitle),
		DistanceKM:       num(colDistance),
		Calories:         num(colCalories),
		AvgHR:            num(colAvgHR),
		MaxHR:            num(colMaxHR),
		AerobicTE:        num(colAerobicTE),
		AvgCadence:       num(colAvgCadence),
		MaxCadence:       num(colMaxCadence),
		AvgPower:         num(colAvgPower),
		AvgVerticalOsc:   num(colAvgVertOsc),
		AvgVerticalRatio: num(colAvgVertRatio),
		AvgGroundContact: num(colAvgGCT),
		AvgStepSpeedLoss: num(colAvgSSL),
		AvgStepSpeedPct:  num(colAvgSSLPct),
		AvgStrideLength:  num(colAvgStride),
	}

	seconds, err := parse.Duration(get(colTime))
	if err != nil {
		metrics.RecordParseFallback(colTime)
	}
	a.TimeSeconds = seconds

	pace, err := parse.Pace(get(colAvgPace))
	if err != nil {
		metrics.RecordParseFallback(colAvgPace)
		pace = 0
	}
	a.AvgPaceMinKM = pace

	left, right, err := parse.GCTBalance(get(colAvgGCTBalance))
	if err != nil {
		metrics.RecordParseFallback(colAvgGCTBalance)
		left, right = parse.DefaultGCTBalance, parse.DefaultGCTBalance
	}
	a.GCTBalanceLeft = left
	a.GCTBalanceRight = right

	return a
}

// Latest returns the most recent activity by date string. Garmin dates sort
// lexicographically, they are ISO formatted.
func Latest(activities []model.Activity) (model.Activity, error) {
	if len(activities) == 0 {
		return model.Activity{}, ErrNoActivities
	}
	sorted := make([]model.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted[0], nil
}

// Aggregate folds activities into the running profile.
func Aggregate(activities []model.Activity) (model.RunningProfile, error) {
	if len(activities) == 0 {
		return model.RunningProfile{}, ErrNoActivities
	}

	n := float64(len(activities))
	p := model.RunningProfile{
		NumActivities: len(activities),
		MinCadence:    activities[0].AvgCadence,
		MinHR:         activities[0].AvgHR,
	}

	var totalSeconds float64
	for _, a := range activities {
		p.TotalDistanceKM += a.DistanceKM
		p.TotalCalories += a.Calories
		p.TotalAerobicTE += a.AerobicTE
		totalSeconds += float64(a.TimeSeconds)

		p.AvgCadence += a.AvgCadence
		p.AvgHR += a.AvgHR
		p.AvgVerticalOsc += a.AvgVerticalOsc
		p.AvgVerticalRatio += a.AvgVerticalRatio
		p.AvgGroundContact += a.AvgGroundContact
		p.AvgStepSpeedLossCMS += a.AvgStepSpeedLoss
		p.AvgStepSpeedLossPct += a.AvgStepSpeedPct
		p.AvgStrideLength += a.AvgStrideLength
		p.AvgGCTBalanceLeft += a.GCTBalanceLeft
		p.AvgGCTBalanceRight += a.GCTBalanceRight
		p.AvgPaceMinKM += a.AvgPaceMinKM
		p.AvgPower += a.AvgPower

		if a.MaxCadence > p.MaxCadence {
			p.MaxCadence = a.MaxCadence
		}
		if a.AvgCadence < p.MinCadence {
			p.MinCadence = a.AvgCadence
		}
		if a.MaxHR > p.MaxHR {
			p.MaxHR = a.MaxHR
		}
		if a.AvgHR < p.MinHR {
			p.MinHR = a.AvgHR
		}

		p.Activities = append(p.Activities, model.ActivityDetail{
			Date:        a.Date,
			DistanceKM:  a.DistanceKM,
			TimeSeconds: a.TimeSeconds,
			AvgHR:       a.AvgHR,
			Cadence:     a.AvgCadence,
			VerticalOsc: a.AvgVerticalOsc,
			GCT:         a.AvgGroundContact,
			StepLoss:    a.AvgStepSpeedLoss,
			AerobicTE:   a.AerobicTE,
		})
	}

	p.TotalTimeHours = totalSeconds / secondsPerHour
	p.AvgCadence /= n
	p.AvgHR /= n
	p.AvgVerticalOsc /= n
	p.AvgVerticalRatio /= n
	p.AvgGroundContact /= n
	p.AvgStepSpeedLossCMS /= n
	p.AvgStepSpeedLossPct /= n
	p.AvgStrideLength /= n
	p.AvgGCTBalanceLeft /= n
	p.AvgGCTBalanceRight /= n
	p.AvgPaceMinKM /= n
	p.AvgPower /= n
	p.AvgAerobicTE = p.TotalAerobicTE / n

	p.CadenceRange = p.MaxCadence - p.MinCadence
	if p.MaxHR > 0 {
		p.HRZoneEfficiency = p.AvgHR / p.MaxHR * 100
	}
	return p, nil
}
