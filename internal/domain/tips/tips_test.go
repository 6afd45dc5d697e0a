package tips_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/tips"
)

func prediction(score float64) model.Prediction {
	return model.Prediction{
		FormScore: score,
		Profile: map[string]model.Gap{
			"cadencespm":          {Metric: "cadencespm", Current: 161, Target: 178, Gap: -17},
			"groundcontacttimems": {Metric: "groundcontacttimems", Current: 271, Target: 245, Gap: 26},
			"heartratebpm":        {Metric: "heartratebpm", Current: 149, Target: 162, Gap: -13},
		},
		PriorityGaps: []model.Gap{
			{Metric: "groundcontacttimems", Current: 271, Target: 245, Gap: 26},
			{Metric: "cadencespm", Current: 161, Target: 178, Gap: -17},
			{Metric: "heartratebpm", Current: 149, Target: 162, Gap: -13},
		},
		ActivityDate: "2026-02-18",
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a gap prediction", t, func() {
		Convey("Each priority gap becomes a focus week with a drill", func() {
			out := tips.Generate(prediction(72.5))
			So(len(out.Tips), ShouldEqual, 3)

			So(out.Tips[0].Week, ShouldEqual, 1)
			So(out.Tips[0].Metric, ShouldEqual, "groundcontacttimems")
			So(out.Tips[0].Drill, ShouldEqual, "Bounding 6x30m")

			So(out.Tips[1].Week, ShouldEqual, 2)
			So(out.Tips[1].Drill, ShouldEqual, "Metronome 170spm 10x1min")

			Convey("Metrics without a drill rotation borrow the SSL drills", func() {
				So(out.Tips[2].Metric, ShouldEqual, "heartratebpm")
				So(out.Tips[2].Drill, ShouldEqual, "Hill repeats 8x30s")
			})
		})

		Convey("The assessment tracks the score bands", func() {
			So(tips.Generate(prediction(90)).Assessment, ShouldEqual, tips.AssessmentElite)
			So(tips.Generate(prediction(72.5)).Assessment, ShouldEqual, tips.AssessmentGood)
			So(tips.Generate(prediction(55)).Assessment, ShouldEqual, tips.AssessmentDevelop)
		})

		Convey("The output carries the raw gaps and the activity date", func() {
			out := tips.Generate(prediction(72.5))
			So(len(out.Gaps), ShouldEqual, 3)
			So(out.Date, ShouldEqual, "2026-02-18")
			So(out.FormScore, ShouldEqual, 72.5)
		})
	})
}
