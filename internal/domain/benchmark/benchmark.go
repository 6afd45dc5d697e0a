// Package benchmark defines the reference bands for running form metrics.
// The bands come from published running dynamics research and drive both the
// per-metric score curve and the status labels shown to the runner.
package benchmark

// Range is an inclusive numeric band.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the band.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Benchmark describes the elite, good and target bands for one metric.
type Benchmark struct {
	Name          string `json:"name"`
	Elite         Range  `json:"elite"`
	Good          Range  `json:"good"`
	Target        Range  `json:"target"`
	Description   string `json:"description"`
	LowerIsBetter bool   `json:"lower_is_better"`
}

// Metric names as they appear in analysis output and artifact files.
const (
	Cadence       = "cadence_spm"
	VerticalOsc   = "vertical_oscillation_cm"
	VerticalRatio = "vertical_ratio"
	GroundContact = "ground_contact_time_ms"
	StepSpeedLoss = "step_speed_loss_percent"
	HREfficiency  = "hr_efficiency"
)

var table = map[string]Benchmark{
	Cadence: {
		Name:        Cadence,
		Elite:       Range{Min: 180, Max: 200},
		Good:        Range{Min: 165, Max: 180},
		Target:      Range{Min: 165, Max: 180},
		Description: "Steps per minute",
	},
	VerticalOsc: {
		Name:          VerticalOsc,
		Elite:         Range{Min: 0, Max: 7},
		Good:          Range{Min: 7, Max: 9},
		Target:        Range{Min: 7, Max: 8},
		Description:   "Vertical oscillation (cm) - lower is better",
		LowerIsBetter: true,
	},
	VerticalRatio: {
		Name:          VerticalRatio,
		Elite:         Range{Min: 0, Max: 7},
		Good:          Range{Min: 7, Max: 9},
		Target:        Range{Min: 7, Max: 8.5},
		Description:   "Vertical ratio (%) - lower is better",
		LowerIsBetter: true,
	},
	GroundContact: {
		Name:          GroundContact,
		Elite:         Range{Min: 200, Max: 240},
		Good:          Range{Min: 240, Max: 280},
		Target:        Range{Min: 240, Max: 270},
		Description:   "Ground contact time (ms) - shorter is better",
		LowerIsBetter: true,
	},
	StepSpeedLoss: {
		Name:          StepSpeedLoss,
		Elite:         Range{Min: 0, Max: 4},
		Good:          Range{Min: 4, Max: 8},
		Target:        Range{Min: 4, Max: 6},
		Description:   "Speed lost per step (%) - lower is better",
		LowerIsBetter: true,
	},
	HREfficiency: {
		Name:        HREfficiency,
		Elite:       Range{Min: 85, Max: 100},
		Good:        Range{Min: 75, Max: 85},
		Target:      Range{Min: 75, Max: 90},
		Description: "HR as % of max (lower = more efficient)",
	},
}

// Lookup returns the benchmark for a metric name.
func Lookup(metric string) (Benchmark, bool) {
	b, ok := table[metric]
	return b, ok
}

// Names returns every benchmarked metric name in a stable order.
func Names() []string {
	return []string{Cadence, VerticalOsc, VerticalRatio, GroundContact, StepSpeedLoss, HREfficiency}
}
