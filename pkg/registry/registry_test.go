package registry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/runner"
)

func TestRegisterAndResolve(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		reg := New()

		first := &Entry{Card: &a2a.AgentCard{Name: "echo"}, Runner: runner.NewEcho(), Agent: &runner.Agent{Name: "echo"}}
		second := &Entry{Card: &a2a.AgentCard{Name: "assistant"}, Runner: runner.NewEcho(), Agent: &runner.Agent{Name: "assistant"}}

		reg.Register(first)
		reg.Register(second)

		Convey("Then named lookup finds the right entry", func() {
			got, ok := reg.Get("assistant")
			So(ok, ShouldBeTrue)
			So(got.Card.Name, ShouldEqual, "assistant")
		})

		Convey("Then First returns the first-registered entry", func() {
			got, ok := reg.First()
			So(ok, ShouldBeTrue)
			So(got.Card.Name, ShouldEqual, "echo")
		})

		Convey("Then Resolve with a blank name behaves like First", func() {
			got, ok := reg.Resolve("")
			So(ok, ShouldBeTrue)
			So(got.Card.Name, ShouldEqual, "echo")
		})

		Convey("Then List returns every entry in registration order", func() {
			all := reg.List()
			So(len(all), ShouldEqual, 2)
			So(all[0].Card.Name, ShouldEqual, "echo")
			So(all[1].Card.Name, ShouldEqual, "assistant")
		})

		Convey("Then an unknown name is not found", func() {
			_, ok := reg.Get("nope")
			So(ok, ShouldBeFalse)
		})
	})
}
