package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParsePhases(t *testing.T) {
	Convey("Phase lists parse from comma-separated numbers", t, func() {
		phases, err := parsePhases("1, 3")
		So(err, ShouldBeNil)
		So(phases, ShouldResemble, []int{1, 3})
	})

	Convey("An empty list means no selection", t, func() {
		phases, err := parsePhases("")
		So(err, ShouldBeNil)
		So(phases, ShouldBeNil)
	})

	Convey("Out-of-range phases are rejected", t, func() {
		_, err := parsePhases("5")
		So(err, ShouldNotBeNil)

		_, err = parsePhases("0")
		So(err, ShouldNotBeNil)
	})

	Convey("Garbage is rejected", t, func() {
		_, err := parsePhases("one,two")
		So(err, ShouldNotBeNil)
	})
}
