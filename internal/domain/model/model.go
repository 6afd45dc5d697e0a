// Package model holds the shared data types flowing between the pipeline
// phases. JSON tags match the artifact files on disk so that profiles written
// by one phase can be read back by the next.
package model

// Activity is one row of a Garmin Activities.csv export with the fields the
// pipeline consumes already parsed into numbers.
type Activity struct {
	ActivityType     string  `json:"activity_type"`
	Date             string  `json:"date"`
	Title            string  `json:"title"`
	DistanceKM       float64 `json:"distance_km"`
	Calories         float64 `json:"calories"`
	TimeSeconds      int     `json:"time_seconds"`
	AvgHR            float64 `json:"avg_hr"`
	MaxHR            float64 `json:"max_hr"`
	AerobicTE        float64 `json:"aerobic_te"`
	AvgCadence       float64 `json:"avg_cadence"`
	MaxCadence       float64 `json:"max_cadence"`
	AvgPaceMinKM     float64 `json:"avg_pace_min_km"`
	AvgPower         float64 `json:"avg_power"`
	AvgVerticalOsc   float64 `json:"avg_vertical_oscillation"`
	AvgVerticalRatio float64 `json:"avg_vertical_ratio"`
	AvgGroundContact float64 `json:"avg_ground_contact_time"`
	AvgStepSpeedLoss float64 `json:"avg_step_speed_loss_cms"`
	AvgStepSpeedPct  float64 `json:"avg_step_speed_loss_pct"`
	AvgStrideLength  float64 `json:"avg_stride_length"`
	GCTBalanceLeft   float64 `json:"gct_balance_left"`
	GCTBalanceRight  float64 `json:"gct_balance_right"`
}

// ActivityDetail is the per-activity record retained inside a running
// profile alongside the aggregates.
type ActivityDetail struct {
	Date        string  `json:"date"`
	DistanceKM  float64 `json:"distance"`
	TimeSeconds int     `json:"time_seconds"`
	AvgHR       float64 `json:"avg_hr"`
	Cadence     float64 `json:"cadence"`
	VerticalOsc float64 `json:"vertical_osc"`
	GCT         float64 `json:"gct"`
	StepLoss    float64 `json:"step_loss"`
	AerobicTE   float64 `json:"aerobic_te"`
}

// RunningProfile is the aggregate produced by phase 1 and persisted as
// running_profile.json.
type RunningProfile struct {
	NumActivities       int     `json:"num_activities"`
	TotalDistanceKM     float64 `json:"total_distance_km"`
	TotalTimeHours      float64 `json:"total_time_hours"`
	AvgCadence          float64 `json:"avg_cadence"`
	MaxCadence          float64 `json:"max_cadence"`
	MinCadence          float64 `json:"min_cadence"`
	CadenceRange        float64 `json:"cadence_range"`
	AvgHR               float64 `json:"avg_hr"`
	MaxHR               float64 `json:"max_hr"`
	MinHR               float64 `json:"min_hr"`
	HRZoneEfficiency    float64 `json:"hr_zone_efficiency"`
	AvgVerticalOsc      float64 `json:"avg_vertical_oscillation"`
	AvgVerticalRatio    float64 `json:"avg_vertical_ratio"`
	AvgGroundContact    float64 `json:"avg_ground_contact_time"`
	AvgStepSpeedLossCMS float64 `json:"avg_step_speed_loss_cms"`
	AvgStepSpeedLossPct float64 `json:"avg_step_speed_loss_pct"`
	AvgStrideLength     float64 `json:"avg_stride_length"`
	AvgGCTBalanceLeft   float64 `json:"avg_gct_balance_left"`
	AvgGCTBalanceRight  float64 `json:"avg_gct_balance_right"`
	AvgPaceMinKM        float64 `json:"avg_pace_min_km"`
	AvgPower            float64 `json:"avg_power"`
	TotalAerobicTE      float64 `json:"total_aerobic_te"`
	AvgAerobicTE        float64 `json:"avg_aerobic_te"`
	TotalCalories       float64 `json:"total_calories"`

	Activities []ActivityDetail `json:"activities"`
}

// MetricScore is the per-metric outcome of a form analysis.
type MetricScore struct {
	Value       float64 `json:"value"`
	Score       float64 `json:"score"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
}

// Band is an inclusive numeric range carried in artifact files.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Highlight marks a metric whose score puts it among the runner's strengths.
type Highlight struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
	Value  float64 `json:"value"`
}

// Improvement marks a metric scoring below the development threshold together
// with the band the runner should aim for.
type Improvement struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
	Value  float64 `json:"value"`
	Target Band    `json:"target"`
}

// FormAnalysis is the phase 2 output persisted as form_analysis.json.
type FormAnalysis struct {
	Timestamp        string                 `json:"timestamp"`
	NumActivities    int                    `json:"num_activities"`
	OverallScore     float64                `json:"overall_score"`
	Metrics          map[string]MetricScore `json:"metrics"`
	Strengths        []Highlight            `json:"strengths"`
	ImprovementAreas []Improvement          `json:"improvement_areas"`
	Recommendations  []string               `json:"recommendations"`
}

// SyntheticRun is one generated training run used to build the model dataset.
type SyntheticRun struct {
	ActivityID       string  `json:"activity_id"`
	Week             int     `json:"week"`
	Day              int     `json:"day"`
	Date             string  `json:"date"`
	DistanceKM       float64 `json:"distance_km"`
	DurationMin      float64 `json:"duration_min"`
	PaceMinKM        float64 `json:"pace_min_km"`
	CadenceSPM       float64 `json:"cadence_spm"`
	VerticalOscCM    float64 `json:"vertical_oscillation_cm"`
	GroundContactMS  float64 `json:"ground_contact_time_ms"`
	StepSpeedLossPct float64 `json:"step_speed_loss_pct"`
	HeartRateBPM     float64 `json:"heart_rate_bpm"`
	PowerW           float64 `json:"power_w"`
	AerobicTE        float64 `json:"aerobic_te"`
	ImprovementPhase string  `json:"improvement_phase"`
	TargetProfile    string  `json:"target_profile,omitempty"`
}

// Gap is the distance between a current metric and its race target.
type Gap struct {
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Gap     float64 `json:"gap"`
}

// Prediction is the phase 4 output persisted as prediction_results.json.
type Prediction struct {
	FormScore        float64        `json:"form_score"`
	Profile          map[string]Gap `json:"profile"`
	PriorityGaps     []Gap          `json:"priority_gaps"`
	ActivityDate     string         `json:"activity_date"`
	DistanceCategory string         `json:"distance_category"`
}

// WeeklyTip is one focus week in a generated training plan.
type WeeklyTip struct {
	Week    int     `json:"week"`
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Gap     float64 `json:"gap"`
	Drill   string  `json:"drill"`
}

// TipsOutput is persisted as ai_tips.json.
type TipsOutput struct {
	FormScore    float64     `json:"form_score"`
	Assessment   string      `json:"assessment"`
	Gaps         []Gap       `json:"gaps"`
	PriorityGaps []Gap       `json:"priority_gaps"`
	Tips         []WeeklyTip `json:"tips"`
	Date         string      `json:"date"`
}
