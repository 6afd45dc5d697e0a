package benchmark_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stride/internal/domain/benchmark"
)

func TestLookup(t *testing.T) {
	Convey("Given the benchmark table", t, func() {
		Convey("Every named metric has an entry", func() {
			for _, name := range benchmark.Names() {
				b, ok := benchmark.Lookup(name)
				So(ok, ShouldBeTrue)
				So(b.Name, ShouldEqual, name)
			}
		})

		Convey("Unknown metrics are rejected", func() {
			_, ok := benchmark.Lookup("stride_angle")
			So(ok, ShouldBeFalse)
		})

		Convey("Polarity matches each metric", func() {
			cad, _ := benchmark.Lookup(benchmark.Cadence)
			So(cad.LowerIsBetter, ShouldBeFalse)

			hr, _ := benchmark.Lookup(benchmark.HREfficiency)
			So(hr.LowerIsBetter, ShouldBeFalse)

			for _, name := range []string{
				benchmark.VerticalOsc,
				benchmark.VerticalRatio,
				benchmark.GroundContact,
				benchmark.StepSpeedLoss,
			} {
				b, _ := benchmark.Lookup(name)
				So(b.LowerIsBetter, ShouldBeTrue)
			}
		})

		Convey("Range containment is inclusive on both ends", func() {
			cad, _ := benchmark.Lookup(benchmark.Cadence)
			So(cad.Elite.Contains(180), ShouldBeTrue)
			So(cad.Elite.Contains(200), ShouldBeTrue)
			So(cad.Elite.Contains(179.9), ShouldBeFalse)
		})
	})
}
