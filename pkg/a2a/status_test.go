package a2a

import "testing"

func TestTaskStateTerminal(t *testing.T) {
	terminal := []TaskState{TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	nonTerminal := []TaskState{TaskStateWorking, TaskStateInputRequired}
	for _, s := range nonTerminal {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
