package ingest_test

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/ingest"
)

const activitiesCSV = `Activity Type,Date,Title,Distance,Calories,Time,Avg HR,Max HR,Aerobic TE,Avg Run Cadence,Max Run Cadence,Avg Pace,Avg Power,Avg Vertical Oscillation,Avg Vertical Ratio,Avg Ground Contact Time,Avg Step Speed Loss,Avg Step Speed Loss %,Avg Stride Length,Avg GCT Balance
Running,2026-02-18,Morning Run,10.0,620,01:00:00,150,170,3.2,160,175,6:00,240,8.0,8.2,270,18,6.0,1.05,50.2% L / 49.8% R
Running,2026-02-16,Tempo Run,8.0,540,00:40:00,158,176,3.8,170,182,5:00,265,7.6,7.8,260,16,5.4,1.12,49.8% L / 50.2% R
`

func TestReadActivities(t *testing.T) {
	Convey("Given an Activities.csv export", t, func() {
		activities, err := ingest.ReadActivities(strings.NewReader(activitiesCSV))
		So(err, ShouldBeNil)
		So(len(activities), ShouldEqual, 2)

		Convey("Fields are parsed into numbers", func() {
			first := activities[0]
			So(first.Date, ShouldEqual, "2026-02-18")
			So(first.DistanceKM, ShouldEqual, 10)
			So(first.TimeSeconds, ShouldEqual, 3600)
			So(first.AvgPaceMinKM, ShouldEqual, 6)
			So(first.GCTBalanceLeft, ShouldEqual, 50.2)
			So(first.GCTBalanceRight, ShouldEqual, 49.8)
		})

		Convey("Malformed fields fall back instead of failing", func() {
			broken := `Date,Distance,Time,Avg Pace,Avg GCT Balance
2026-02-18,oops,junk,bad,garbage
`
			got, err := ingest.ReadActivities(strings.NewReader(broken))
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)
			So(got[0].DistanceKM, ShouldEqual, 0)
			So(got[0].TimeSeconds, ShouldEqual, 0)
			So(got[0].AvgPaceMinKM, ShouldEqual, 0)
			So(got[0].GCTBalanceLeft, ShouldEqual, 50)
			So(got[0].GCTBalanceRight, ShouldEqual, 50)
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given parsed activities", t, func() {
		activities, err := ingest.ReadActivities(strings.NewReader(activitiesCSV))
		So(err, ShouldBeNil)

		Convey("The profile aggregates sums, means and extrema", func() {
			profile, err := ingest.Aggregate(activities)
			So(err, ShouldBeNil)

			So(profile.NumActivities, ShouldEqual, 2)
			So(profile.TotalDistanceKM, ShouldEqual, 18)
			So(profile.TotalCalories, ShouldEqual, 1160)
			So(profile.TotalTimeHours, ShouldAlmostEqual, 5.0/3.0, 1e-9)

			So(profile.AvgCadence, ShouldEqual, 165)
			So(profile.MaxCadence, ShouldEqual, 182)
			So(profile.MinCadence, ShouldEqual, 160)
			So(profile.CadenceRange, ShouldEqual, 22)

			So(profile.AvgHR, ShouldEqual, 154)
			So(profile.MaxHR, ShouldEqual, 176)
			So(profile.MinHR, ShouldEqual, 150)
			So(profile.HRZoneEfficiency, ShouldAlmostEqual, 154.0/176.0*100, 1e-9)

			So(profile.AvgPaceMinKM, ShouldEqual, 5.5)
			So(profile.AvgVerticalOsc, ShouldAlmostEqual, 7.8, 1e-9)
			So(profile.AvgGroundContact, ShouldEqual, 265)
			So(profile.AvgStepSpeedLossPct, ShouldAlmostEqual, 5.7, 1e-9)
			So(profile.AvgGCTBalanceLeft, ShouldAlmostEqual, 50, 1e-9)
			So(profile.TotalAerobicTE, ShouldAlmostEqual, 7, 1e-9)
			So(profile.AvgAerobicTE, ShouldAlmostEqual, 3.5, 1e-9)
		})

		Convey("The profile keeps a per-activity detail list", func() {
			profile, err := ingest.Aggregate(activities)
			So(err, ShouldBeNil)

			So(len(profile.Activities), ShouldEqual, 2)
			first := profile.Activities[0]
			So(first.Date, ShouldEqual, "2026-02-18")
			So(first.DistanceKM, ShouldEqual, 10)
			So(first.TimeSeconds, ShouldEqual, 3600)
			So(first.Cadence, ShouldEqual, 160)
			So(first.GCT, ShouldEqual, 270)
			So(first.AerobicTE, ShouldAlmostEqual, 3.2, 1e-9)
		})

		Convey("An empty export is rejected", func() {
			_, err := ingest.Aggregate(nil)
			So(err, ShouldWrap, ingest.ErrNoActivities)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given activities out of order", t, func() {
		activities, err := ingest.ReadActivities(strings.NewReader(activitiesCSV))
		So(err, ShouldBeNil)

		Convey("Latest picks the newest by date", func() {
			latest, err := ingest.Latest(activities)
			So(err, ShouldBeNil)
			So(latest.Date, ShouldEqual, "2026-02-18")
		})

		Convey("No activities is an error", func() {
			_, err := ingest.Latest(nil)
			So(err, ShouldWrap, ingest.ErrNoActivities)
		})
	})
}

func TestSplits(t *testing.T) {
	Convey("Given a splits export", t, func() {
		data := `pace,cadence,heart_rate,vertical_oscillation,gct,gct_balance,step_speed_loss
5.8,158,145,8.1,272,50.1,17
5.7,161,150,8.0,268,50.0,16
5.6,164,156,7.9,265,49.9,15
`
		splits, err := ingest.ReadSplits(strings.NewReader(data))
		So(err, ShouldBeNil)
		So(len(splits), ShouldEqual, 3)

		Convey("The analysis averages per-km metrics and labels trends", func() {
			analysis, err := ingest.AnalyzeSplits(splits, "run-42")
			So(err, ShouldBeNil)
			So(analysis.ActivityID, ShouldEqual, "run-42")
			So(analysis.TotalKM, ShouldEqual, 3)
			So(analysis.AvgCadence, ShouldAlmostEqual, 161, 1e-9)
			So(analysis.AvgHeartRate, ShouldAlmostEqual, 150.333333, 1e-4)
			So(analysis.CadenceTrend, ShouldEqual, ingest.TrendIncreasing)
			So(analysis.HRTrend, ShouldEqual, ingest.TrendIncreasing)
		})

		Convey("Empty splits are rejected", func() {
			_, err := ingest.AnalyzeSplits(nil, "run-42")
			So(err, ShouldWrap, ingest.ErrNoSplits)
		})
	})
}
