// Package fitconv converts Garmin FIT activity files into per-record running
// dynamics CSVs. Invalid sentinel values in the FIT records come out as empty
// CSV cells rather than bogus numbers.
package fitconv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// DefaultRecentFiles bounds how many FIT files a pipeline run converts.
const DefaultRecentFiles = 3

const (
	metersPerKM     = 1000.0
	mmPerMeter      = 1000.0
	mpsToKMH        = 3.6
	secondsPerMin   = 60.0
	stepsPerStride  = 2.0
	percentScale    = 100.0
	filePermissions = 0o644
)

// header is the column order of converted record CSVs.
var header = []string{
	"timestamp",
	"position_lat", "position_long", "altitude",
	"distance", "speed", "cadence", "heart_rate",
	"vertical_oscillation", "vertical_ratio",
	"stance_time", "stance_time_balance",
	"step_length", "power",
}

// Summary describes one converted FIT file.
type Summary struct {
	File           string  `json:"file"`
	Records        int     `json:"records"`
	DurationMin    float64 `json:"duration_min"`
	DistanceKM     float64 `json:"distance_km"`
	AvgSpeedKMH    float64 `json:"avg_speed_kmh"`
	AvgCadence     float64 `json:"avg_cadence"`
	AvgHR          float64 `json:"avg_hr"`
	HasVerticalOsc bool    `json:"has_vertical_osc"`
	HasGCT         bool    `json:"has_gct"`
	HasStepLength  bool    `json:"has_step_length"`
}

// Convert decodes one FIT file and writes its record messages as CSV.
func Convert(fitPath, csvPath string) (Summary, error) {
	data, err := os.ReadFile(fitPath)
	if err != nil {
		return Summary{}, fmt.Errorf("read fit file: %w", err)
	}

	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s: %w", ErrDecode, filepath.Base(fitPath), err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s: %w", ErrNotActivity, filepath.Base(fitPath), err)
	}
	if len(activity.Records) == 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrNoRecords, filepath.Base(fitPath))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return Summary{}, fmt.Errorf("write csv: %w", err)
	}

	summary := Summary{
		File:    filepath.Base(fitPath),
		Records: len(activity.Records),
	}
	var (
		firstTS, lastTS  time.Time
		speedSum, cadSum float64
		hrSum            float64
		speedN, cadN     int
		hrN              int
		maxDistance      float64
	)

	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		if firstTS.IsZero() {
			firstTS = rec.Timestamp
		}
		lastTS = rec.Timestamp

		row := make([]string, 0, len(header))
		row = append(row, rec.Timestamp.UTC().Format(time.RFC3339))
		row = append(row, cell(rec.PositionLat.Degrees()))
		row = append(row, cell(rec.PositionLong.Degrees()))
		row = append(row, cell(rec.GetAltitudeScaled()))

		distance := rec.GetDistanceScaled()
		row = append(row, cell(distance))
		if !math.IsNaN(distance) && distance > maxDistance {
			maxDistance = distance
		}

		speed := rec.GetSpeedScaled()
		row = append(row, cell(speed))
		if !math.IsNaN(speed) {
			speedSum += speed
			speedN++
		}

		cadence := cadenceOf(rec)
		row = append(row, cell(cadence))
		if !math.IsNaN(cadence) {
			cadSum += cadence
			cadN++
		}

		hr := math.NaN()
		if rec.HeartRate != ^uint8(0) {
			hr = float64(rec.HeartRate)
			hrSum += hr
			hrN++
		}
		row = append(row, cell(hr))

		vo := rec.GetVerticalOscillationScaled()
		row = append(row, cell(vo))
		summary.HasVerticalOsc = summary.HasVerticalOsc || !math.IsNaN(vo)

		// Step length and vertical ratio are not record message fields,
		// so both are derived from speed, cadence and oscillation.
		step := stepLengthMM(speed, cadence)
		row = append(row, cell(verticalRatioPct(vo, step)))

		gct := rec.GetStanceTimeScaled()
		row = append(row, cell(gct))
		summary.HasGCT = summary.HasGCT || !math.IsNaN(gct)

		// Stance time balance needs paired running dynamics data that
		// record messages do not carry.
		row = append(row, "")

		row = append(row, cell(step))
		summary.HasStepLength = summary.HasStepLength || !math.IsNaN(step)

		if rec.Power != ^uint16(0) {
			row = append(row, strconv.Itoa(int(rec.Power)))
		} else {
			row = append(row, "")
		}

		if err := w.Write(row); err != nil {
			return Summary{}, fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Summary{}, fmt.Errorf("write csv: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
		return Summary{}, fmt.Errorf("create csv dir: %w", err)
	}
	if err := os.WriteFile(csvPath, buf.Bytes(), filePermissions); err != nil {
		return Summary{}, fmt.Errorf("write csv: %w", err)
	}

	summary.DurationMin = lastTS.Sub(firstTS).Seconds() / secondsPerMin
	summary.DistanceKM = maxDistance / metersPerKM
	if speedN > 0 {
		summary.AvgSpeedKMH = speedSum / float64(speedN) * mpsToKMH
	}
	if cadN > 0 {
		summary.AvgCadence = cadSum / float64(cadN)
	}
	if hrN > 0 {
		summary.AvgHR = hrSum / float64(hrN)
	}
	return summary, nil
}

// ConvertRecent converts up to n of the newest FIT files in fitDir, writing
// CSVs into csvDir. Files whose CSV already exists are skipped.
func ConvertRecent(ctx context.Context, fitDir, csvDir string, n int) ([]Summary, error) {
	if n <= 0 {
		n = DefaultRecentFiles
	}
	entries, err := os.ReadDir(fitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fit dir: %w", err)
	}

	type candidate struct {
		name    string
		modTime time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: e.Name(), modTime: info.ModTime()})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	log := logger.Named("fitconv")
	summaries := make([]Summary, 0, len(candidates))
	for _, c := range candidates {
		base := strings.TrimSuffix(c.name, filepath.Ext(c.name))
		csvPath := filepath.Join(csvDir, base+".csv")
		if _, err := os.Stat(csvPath); err == nil {
			log.Debug(ctx, "csv exists, skipping", logger.String("file", c.name))
			continue
		}

		summary, err := Convert(filepath.Join(fitDir, c.name), csvPath)
		if err != nil {
			log.Warn(ctx, "conversion failed",
				logger.String("file", c.name),
				logger.Error(err))
			continue
		}
		log.Info(ctx, "converted fit file",
			logger.String("file", summary.File),
			logger.Int("records", summary.Records))
		metrics.RecordFITFileConverted()
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// cell formats an optional float for CSV, NaN becomes an empty cell.
func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stepLengthMM derives step length in millimeters from speed in m/s and
// cadence in strides per minute. One stride counts both feet, so steps per
// second is cadence times two over sixty.
func stepLengthMM(speedMPS, cadence float64) float64 {
	if math.IsNaN(speedMPS) || math.IsNaN(cadence) || cadence <= 0 {
		return math.NaN()
	}
	stepsPerSecond := cadence * stepsPerStride / secondsPerMin
	return speedMPS / stepsPerSecond * mmPerMeter
}

// verticalRatioPct is vertical oscillation as a percentage of step length.
func verticalRatioPct(oscillationMM, stepMM float64) float64 {
	if math.IsNaN(oscillationMM) || math.IsNaN(stepMM) || stepMM <= 0 {
		return math.NaN()
	}
	return oscillationMM / stepMM * percentScale
}

// cadenceOf combines whole and fractional cadence when both are present.
func cadenceOf(rec *fit.RecordMsg) float64 {
	if rec.Cadence == ^uint8(0) {
		return math.NaN()
	}
	cadence := float64(rec.Cadence)
	if frac := rec.GetFractionalCadenceScaled(); !math.IsNaN(frac) {
		cadence += frac
	}
	return cadence
}
