package scoring_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/benchmark"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/scoring"
)

func TestScoreMetric(t *testing.T) {
	Convey("Given a scorer", t, func() {
		s := scoring.New()

		Convey("Values inside the elite band score 100", func() {
			for _, v := range []float64{180, 190, 200} {
				got, err := s.ScoreMetric(v, benchmark.Cadence)
				So(err, ShouldBeNil)
				So(got.Score, ShouldEqual, 100)
				So(got.Status, ShouldEqual, "Elite")
			}
		})

		Convey("Lower-is-better values under the elite band also score 100", func() {
			got, err := s.ScoreMetric(5.5, benchmark.VerticalOsc)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 100)
		})

		Convey("The good band interpolates between 70 and 100", func() {
			got, err := s.ScoreMetric(8, benchmark.VerticalOsc)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 85)
		})

		Convey("The target band interpolates between 75 and 100", func() {
			got, err := s.ScoreMetric(172.5, benchmark.Cadence)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 87.5)
		})

		Convey("Values over a lower-is-better good band floor at 30", func() {
			got, err := s.ScoreMetric(500, benchmark.GroundContact)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 30)
			So(got.Status, ShouldEqual, "Develop")
		})

		Convey("Values far under a higher-is-better target band floor at 30", func() {
			got, err := s.ScoreMetric(100, benchmark.Cadence)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 30)
		})

		Convey("Values far over a higher-is-better elite band floor at 0", func() {
			got, err := s.ScoreMetric(300, benchmark.Cadence)
			So(err, ShouldBeNil)
			So(got.Score, ShouldEqual, 0)
		})

		Convey("Unknown benchmarks are rejected", func() {
			_, err := s.ScoreMetric(1, "stride_angle")
			So(err, ShouldWrap, scoring.ErrUnknownMetric)
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given a scorer with a fixed clock", t, func() {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s := scoring.New(scoring.WithClock(func() time.Time { return now }))

		Convey("An all-elite profile scores a perfect overall", func() {
			profile := model.RunningProfile{
				NumActivities:       30,
				AvgCadence:          185,
				AvgVerticalOsc:      6.5,
				AvgVerticalRatio:    6.5,
				AvgGroundContact:    220,
				AvgStepSpeedLossPct: 3,
				AvgHR:               153,
				MaxHR:               170,
			}
			analysis, err := s.Analyze(profile)
			So(err, ShouldBeNil)
			So(analysis.OverallScore, ShouldEqual, 100)
			So(analysis.Timestamp, ShouldEqual, "2026-03-01T12:00:00Z")
			So(analysis.NumActivities, ShouldEqual, 30)
			So(len(analysis.Strengths), ShouldEqual, 6)
			So(analysis.ImprovementAreas, ShouldBeEmpty)
			So(analysis.Recommendations, ShouldBeEmpty)
		})

		Convey("A weak profile collects improvement areas and recommendations", func() {
			profile := model.RunningProfile{
				NumActivities:       10,
				AvgCadence:          150,
				AvgVerticalOsc:      10.5,
				AvgVerticalRatio:    10.5,
				AvgGroundContact:    300,
				AvgStepSpeedLossPct: 10,
				AvgHR:               165,
				MaxHR:               172,
			}
			analysis, err := s.Analyze(profile)
			So(err, ShouldBeNil)
			So(analysis.OverallScore, ShouldBeLessThan, 70)
			So(len(analysis.ImprovementAreas), ShouldBeGreaterThan, 0)
			So(len(analysis.Recommendations), ShouldEqual, 4)
			So(analysis.Recommendations[0], ShouldContainSubstring, "cadence")
		})

		Convey("HR efficiency is derived from average and max heart rate", func() {
			profile := model.RunningProfile{
				AvgCadence:          170,
				AvgVerticalOsc:      7.5,
				AvgVerticalRatio:    7.5,
				AvgGroundContact:    255,
				AvgStepSpeedLossPct: 5.5,
				AvgHR:               136,
				MaxHR:               170,
			}
			analysis, err := s.Analyze(profile)
			So(err, ShouldBeNil)
			So(analysis.Metrics["hr_efficiency"].Value, ShouldEqual, 80)
		})
	})
}
