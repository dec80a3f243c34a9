package a2a

import "time"

/*
TaskState enumerates the mutually exclusive states a task may be in.  The
last four are terminal: no further transitions are permitted once a task
reaches one of them.  rejected is modeled for completeness but never
produced by the task manager itself; it is reserved for policy layers
built on top of this engine.
*/
type TaskState string

const (
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateRejected      TaskState = "rejected"
)

// Terminal reports whether no further transitions are permitted from s.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected:
		return true
	default:
		return false
	}
}

// ErrorDetail carries structured error information attached to a failed
// status, distinct from the human-readable Message.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type TaskStatus struct {
	State       TaskState    `json:"state"`
	Timestamp   time.Time    `json:"timestamp"`
	Message     *Message     `json:"message,omitempty"`
	ErrorDetail *ErrorDetail `json:"errorDetails,omitempty"`
}
