package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/stride/internal/parse"
)

// Split is one per-kilometer row of a Garmin splits export.
type Split struct {
	PaceMinKM     float64
	CadenceSPM    float64
	HeartRateBPM  float64
	VerticalOscCM float64
	GCTMS         float64
	GCTBalance    float64
	StepSpeedLoss float64
}

// SplitAnalysis summarizes a splits file.
type SplitAnalysis struct {
	ActivityID     string  `json:"activity_id"`
	TotalKM        int     `json:"total_km"`
	AvgPaceMinKM   float64 `json:"avg_pace_min_km"`
	AvgCadence     float64 `json:"avg_cadence"`
	AvgHeartRate   float64 `json:"avg_heart_rate"`
	AvgVerticalOsc float64 `json:"avg_vertical_osc"`
	AvgGCT         float64 `json:"avg_gct"`
	AvgGCTBalance  float64 `json:"avg_gct_balance"`
	AvgStepLoss    float64 `json:"avg_step_speed_loss"`
	CadenceTrend   string  `json:"cadence_trend"`
	HRTrend        string  `json:"hr_trend"`
}

// Trend labels comparing last split to first.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

// splits.csv column names.
const (
	colSplitPace       = "pace"
	colSplitCadence    = "cadence"
	colSplitHR         = "heart_rate"
	colSplitVertOsc    = "vertical_oscillation"
	colSplitGCT        = "gct"
	colSplitGCTBalance = "gct_balance"
	colSplitSSL        = "step_speed_loss"
)

// LoadSplits reads a per-kilometer splits export.
func LoadSplits(path string) ([]Split, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open splits: %w", err)
	}
	defer f.Close()
	return ReadSplits(f)
}

// ReadSplits parses split rows from CSV data with a header row.
func ReadSplits(r io.Reader) ([]Split, error) {
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

	var splits []Split
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		get := func(name string) float64 {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return 0
			}
			return parse.FloatOr(row[i], 0)
		}
		splits = append(splits, Split{
			PaceMinKM:     get(colSplitPace),
			CadenceSPM:    get(colSplitCadence),
			HeartRateBPM:  get(colSplitHR),
			VerticalOscCM: get(colSplitVertOsc),
			GCTMS:         get(colSplitGCT),
			GCTBalance:    get(colSplitGCTBalance),
			StepSpeedLoss: get(colSplitSSL),
		})
	}
	return splits, nil
}

// AnalyzeSplits computes per-km averages and first-to-last trends.
func AnalyzeSplits(splits []Split, activityID string) (SplitAnalysis, error) {
	if len(splits) == 0 {
		return SplitAnalysis{}, ErrNoSplits
	}

	a := SplitAnalysis{
		ActivityID: activityID,
		TotalKM:    len(splits),
	}
	for _, s := range splits {
		a.AvgPaceMinKM += s.PaceMinKM
		a.AvgCadence += s.CadenceSPM
		a.AvgHeartRate += s.HeartRateBPM
		a.AvgVerticalOsc += s.VerticalOscCM
		a.AvgGCT += s.GCTMS
		a.AvgGCTBalance += s.GCTBalance
		a.AvgStepLoss += s.StepSpeedLoss
	}
	n := float64(len(splits))
	a.AvgPaceMinKM /= n
	a.AvgCadence /= n
	a.AvgHeartRate /= n
	a.AvgVerticalOsc /= n
	a.AvgGCT /= n
	a.AvgGCTBalance /= n
	a.AvgStepLoss /= n

	first, last := splits[0], splits[len(splits)-1]
	a.CadenceTrend = trend(first.CadenceSPM, last.CadenceSPM)
	a.HRTrend = trend(first.HeartRateBPM, last.HeartRateBPM)
	return a, nil
}

func trend(first, last float64) string {
	if last > first {
		return TrendIncreasing
	}
	return TrendDecreasing
}
