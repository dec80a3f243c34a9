package a2a

import "time"

// EventType discriminates the three event payload shapes the manager and
// runner can emit onto a task's subscribers.
type EventType string

const (
	EventStatusUpdate   EventType = "status-update"
	EventArtifactUpdate EventType = "artifact-update"
	EventToken          EventType = "token"
)

// Event is the common envelope delivered on the event bus and, for
// status-update/artifact-update, mirrored to push-notification webhooks.
// Exactly one of Status/Artifact/Token is populated, selected by Type.
type Event struct {
	Type      EventType  `json:"type"`
	TaskID    string     `json:"taskId"`
	Timestamp time.Time  `json:"timestamp"`
	Status    *TaskStatus `json:"status,omitempty"`
	Artifact  *Artifact   `json:"artifact,omitempty"`
	Token     string      `json:"token,omitempty"`
}

func NewStatusEvent(taskID string, status TaskStatus) Event {
	return Event{
		Type:      EventStatusUpdate,
		TaskID:    taskID,
		Timestamp: time.Now(),
		Status:    &status,
	}
}

func NewArtifactEvent(taskID string, artifact Artifact) Event {
	return Event{
		Type:      EventArtifactUpdate,
		TaskID:    taskID,
		Timestamp: time.Now(),
		Artifact:  &artifact,
	}
}

func NewTokenEvent(taskID, token string) Event {
	return Event{
		Type:      EventToken,
		TaskID:    taskID,
		Timestamp: time.Now(),
		Token:     token,
	}
}

// Terminal reports whether this event is a status-update carrying a
// terminal state, the streaming generator's stop condition.
func (e Event) Terminal() bool {
	return e.Type == EventStatusUpdate && e.Status != nil && e.Status.State.Terminal()
}
