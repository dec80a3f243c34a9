package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStreamOpenedTracksOpenCount(t *testing.T) {
	Convey("Given no open streams", t, func() {
		before := Streaming.OpenStreams.Value()

		Convey("When a stream opens", func() {
			closeStream := StreamOpened()
			So(Streaming.OpenStreams.Value(), ShouldEqual, before+1)

			Convey("Then closing it returns the count to baseline", func() {
				closeStream()
				So(Streaming.OpenStreams.Value(), ShouldEqual, before)
			})

			Convey("Then closing it twice is a no-op", func() {
				closeStream()
				closeStream()
				So(Streaming.OpenStreams.Value(), ShouldEqual, before)
			})
		})
	})
}

func TestEventCounters(t *testing.T) {
	Convey("Given baseline event counters", t, func() {
		writtenBefore := Streaming.EventsWritten.Value()
		droppedBefore := Streaming.EventsDropped.Value()

		Convey("When an event is written", func() {
			EventWritten()
			So(Streaming.EventsWritten.Value(), ShouldEqual, writtenBefore+1)
		})

		Convey("When an event is dropped", func() {
			EventDropped()
			So(Streaming.EventsDropped.Value(), ShouldEqual, droppedBefore+1)
		})
	})
}
