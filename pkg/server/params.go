package server

import "github.com/theapemachine/a2a-go/pkg/a2a"

// messageParams is the shared params shape of message/send and
// message/stream: { message, agentName?, configuration? }. Configuration is
// accepted but currently opaque — no dispatch-level behavior depends on it.
type messageParams struct {
	Message       a2a.Message    `json:"message"`
	AgentName     string         `json:"agentName,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

type taskIDParams struct {
	ID string `json:"id"`
}

type tasksListParams struct {
	ContextID string  `json:"contextId,omitempty"`
	State     string  `json:"state,omitempty"`
	Limit     *int    `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

type pushNotificationCreateParams struct {
	TaskID string                     `json:"taskId"`
	Config a2a.PushNotificationConfig `json:"config"`
}

type pushNotificationGetParams struct {
	TaskID   string `json:"taskId"`
	ConfigID string `json:"configId"`
}

type pushNotificationListParams struct {
	TaskID string `json:"taskId"`
}

type pushNotificationDeleteParams struct {
	TaskID   string `json:"taskId"`
	ConfigID string `json:"configId"`
}

type agentCardParams struct {
	AgentName string `json:"agentName,omitempty"`
}

type tasksListResult struct {
	Tasks      []*a2a.Task `json:"tasks"`
	NextOffset *int        `json:"nextOffset,omitempty"`
}
