// Package tips turns a gap prediction into a focused multi-week training
// plan, pairing each priority gap with a concrete drill.
package tips

import (
	"github.com/okian/stride/internal/domain/model"
)

// Assessment bands on the predicted form score.
const (
	eliteScoreFloor = 85.0
	goodScoreFloor  = 70.0

	AssessmentElite   = "Elite form, maintain and monitor"
	AssessmentGood    = "Good form, close the remaining gaps"
	AssessmentDevelop = "Big potential, work the priority gaps"
)

// drills lists the drill rotation per metric. Metrics without a dedicated
// rotation borrow the step-speed-loss drills, they train the same leg
// stiffness qualities.
var drills = map[string][]string{
	"cadencespm":            {"Metronome 170spm 10x1min", "High-knee 3x30s", "8x200m tempo"},
	"verticaloscillationcm": {"Light footstrike 10x20s", "Calf raises 4x15", "Pogo 3x20s"},
	"groundcontacttimems":   {"Bounding 6x30m", "Box jumps 4x10", "Ski hops 3x20s"},
	"stepspeedlosspct":      {"Hill repeats 8x30s", "Single-leg hops 3x15", "A-skips 4x40m"},
	"paceminkm":             {"Tempo 20min", "Fartlek 30min", "Strides 10x20s"},
}

const fallbackDrillMetric = "stepspeedlosspct"

// Generate builds the training plan for a prediction. Each priority gap gets
// one focus week with its leading drill.
func Generate(pred model.Prediction) model.TipsOutput {
	out := model.TipsOutput{
		FormScore:    pred.FormScore,
		Assessment:   assess(pred.FormScore),
		Gaps:         allGaps(pred),
		PriorityGaps: pred.PriorityGaps,
		Tips:         make([]model.WeeklyTip, 0, len(pred.PriorityGaps)),
		Date:         pred.ActivityDate,
	}

	for i, gap := range pred.PriorityGaps {
		out.Tips = append(out.Tips, model.WeeklyTip{
			Week:    i + 1,
			Metric:  gap.Metric,
			Current: gap.Current,
			Target:  gap.Target,
			Gap:     gap.Gap,
			Drill:   drillFor(gap.Metric),
		})
	}
	return out
}

func assess(score float64) string {
	switch {
	case score > eliteScoreFloor:
		return AssessmentElite
	case score > goodScoreFloor:
		return AssessmentGood
	default:
		return AssessmentDevelop
	}
}

func drillFor(metric string) string {
	rotation, ok := drills[metric]
	if !ok {
		rotation = drills[fallbackDrillMetric]
	}
	return rotation[0]
}

func allGaps(pred model.Prediction) []model.Gap {
	out := make([]model.Gap, 0, len(pred.Profile))
	for _, metric := range []string{
		"cadencespm", "verticaloscillationcm", "groundcontacttimems",
		"stepspeedlosspct", "heartratebpm", "paceminkm",
	} {
		if gap, ok := pred.Profile[metric]; ok {
			out = append(out, gap)
		}
	}
	return out
}
