package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLongestRun(t *testing.T) {
	Convey("Given an ordered boolean sequence", t, func() {
		Convey("When it is T,T,F,T,T,T,F", func() {
			n, end := longestRun([]bool{true, true, false, true, true, true, false})

			Convey("Then the longest run is 3 and ends at index 5", func() {
				So(n, ShouldEqual, 3)
				So(end, ShouldEqual, 5)
			})
		})

		Convey("When two runs tie", func() {
			n, end := longestRun([]bool{true, true, false, true, true})

			Convey("Then the first one wins", func() {
				So(n, ShouldEqual, 2)
				So(end, ShouldEqual, 1)
			})
		})

		Convey("When nothing holds", func() {
			n, end := longestRun([]bool{false, false})

			Convey("Then the run is empty", func() {
				So(n, ShouldEqual, 0)
				So(end, ShouldEqual, -1)
			})
		})
	})
}

func TestMaxWindow(t *testing.T) {
	Convey("Given a summable sequence", t, func() {
		values := []float64{5, 10, 3, 20, 1}

		Convey("When the window is 2 games", func() {
			sum, start, ok := maxWindow(values, 2)

			Convey("Then the best window is [3,20]", func() {
				So(ok, ShouldBeTrue)
				So(sum, ShouldEqual, 23.0)
				So(start, ShouldEqual, 2)
			})
		})

		Convey("When the window covers the whole sequence", func() {
			sum, start, ok := maxWindow(values, 5)

			Convey("Then there is exactly one window", func() {
				So(ok, ShouldBeTrue)
				So(sum, ShouldEqual, 39.0)
				So(start, ShouldEqual, 0)
			})
		})

		Convey("When the window is longer than the sequence", func() {
			_, _, ok := maxWindow(values, 6)

			Convey("Then no window exists", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When equal windows appear", func() {
			sum, start, ok := maxWindow([]float64{4, 4, 4, 4}, 2)

			Convey("Then the earliest one is kept", func() {
				So(ok, ShouldBeTrue)
				So(sum, ShouldEqual, 8.0)
				So(start, ShouldEqual, 0)
			})
		})
	})
}

func TestReachCount(t *testing.T) {
	Convey("Given per-game values of 3000", t, func() {
		values := []float64{3000, 3000, 3000, 3000}

		Convey("When the threshold is 10000", func() {
			n, ok := reachCount(values, 10000)

			Convey("Then it is crossed at the 4th game", func() {
				So(ok, ShouldBeTrue)
				So(n, ShouldEqual, 4)
			})
		})

		Convey("When the threshold is hit exactly", func() {
			n, ok := reachCount(values, 6000)

			Convey("Then reaching counts as crossing", func() {
				So(ok, ShouldBeTrue)
				So(n, ShouldEqual, 2)
			})
		})

		Convey("When the threshold is never reached", func() {
			_, ok := reachCount(values, 20000)

			Convey("Then the entity does not qualify", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestQualifyingSeasons(t *testing.T) {
	Convey("Given per-game values across three seasons", t, func() {
		seasons := []int{2019, 2019, 2020, 2021, 2021}
		values := []float64{60, 50, 90, 40, 70}

		Convey("When the threshold is 100", func() {
			n, first, last := qualifyingSeasons(seasons, values, 100)

			Convey("Then the two seasons that reach it are counted", func() {
				So(n, ShouldEqual, 2)
				So(first, ShouldEqual, 2019)
				So(last, ShouldEqual, 2021)
			})
		})

		Convey("When no season reaches the threshold", func() {
			n, _, _ := qualifyingSeasons(seasons, values, 500)

			Convey("Then the count is zero", func() {
				So(n, ShouldEqual, 0)
			})
		})
	})
}
