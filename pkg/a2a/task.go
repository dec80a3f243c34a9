package a2a

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cohesivestack/valgo"
	"github.com/google/uuid"
)

// Task is identified by a process-unique opaque id and scoped to a single
// agent. ContextID groups related tasks across a multi-turn conversation.
// History is append-only; Artifacts accumulate as the runner produces
// them. Mutated only through the task manager's operations.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewTaskID() string     { return "task_" + uuid.New().String() }
func NewContextID() string  { return "ctx_" + uuid.New().String() }
func NewArtifactID() string { return "art_" + uuid.New().String() }
func NewPushConfigID() string { return "pnc_" + uuid.New().String() }

// NewTask creates a task in the working state with history seeded by the
// triggering message. contextID is assumed already resolved by the
// caller (generated if the request didn't supply one).
func NewTask(contextID string, triggering Message) *Task {
	return &Task{
		ID:        NewTaskID(),
		ContextID: contextID,
		Status: TaskStatus{
			State:     TaskStateWorking,
			Timestamp: time.Now(),
		},
		History:   []Message{triggering},
		Artifacts: make([]Artifact, 0),
		Metadata:  make(map[string]any),
	}
}

// Validate performs structural validation of a task as stored: non-blank
// id/contextId, a recognized state, and a well-formed history.
func (t *Task) Validate() bool {
	v := valgo.Is(
		valgo.String(t.ID, "id").Not().Blank(),
		valgo.String(t.ContextID, "contextId").Not().Blank(),
		valgo.String(string(t.Status.State), "status.state").Not().Blank(),
	)
	if !v.Valid() {
		return false
	}
	for i := range t.History {
		if !t.History[i].Valid() {
			return false
		}
	}
	return true
}

// DeepCopy returns a fully independent copy of the task, matching the
// store's deep-copy-on-read/write contract.
func (t *Task) DeepCopy() *Task {
	if t == nil {
		return nil
	}
	out := *t
	if t.Status.Message != nil {
		msg := *t.Status.Message
		msg.Parts = append([]Part(nil), t.Status.Message.Parts...)
		out.Status.Message = &msg
	}
	if t.Status.ErrorDetail != nil {
		detail := *t.Status.ErrorDetail
		out.Status.ErrorDetail = &detail
	}
	if t.History != nil {
		out.History = make([]Message, len(t.History))
		for i, m := range t.History {
			cp := m
			cp.Parts = append([]Part(nil), m.Parts...)
			out.History[i] = cp
		}
	}
	if t.Artifacts != nil {
		out.Artifacts = make([]Artifact, len(t.Artifacts))
		for i, a := range t.Artifacts {
			cp := a
			cp.Parts = append([]Part(nil), a.Parts...)
			out.Artifacts[i] = cp
		}
	}
	if t.Metadata != nil {
		out.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

func (t *Task) LastMessage() *Message {
	if len(t.History) == 0 {
		return nil
	}
	return &t.History[len(t.History)-1]
}

func (t *Task) String() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)

	indent := "   "
	bullet := "│ "

	sb.WriteString(headerStyle.Render("Task Details") + "\n")
	sb.WriteString(bullet + labelStyle.Render("ID: ") + valueStyle.Render(t.ID) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Context ID: ") + valueStyle.Render(t.ContextID) + "\n")

	sb.WriteString("\n" + sectionStyle.Render("Status") + "\n")
	sb.WriteString(bullet + labelStyle.Render("State: ") + valueStyle.Render(string(t.Status.State)) + "\n")
	if t.Status.Message != nil {
		sb.WriteString(bullet + labelStyle.Render("Message: ") + valueStyle.Render(t.Status.Message.Text()) + "\n")
	}
	sb.WriteString(bullet + labelStyle.Render("Timestamp: ") + valueStyle.Render(t.Status.Timestamp.Format(time.RFC3339)) + "\n")

	if len(t.History) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("History") + "\n")
		for i, message := range t.History {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Message %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Role: ") + valueStyle.Render(string(message.Role)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Content: ") + valueStyle.Render(message.Text()) + "\n")
		}
	}

	if len(t.Artifacts) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Artifacts") + "\n")
		for i, artifact := range t.Artifacts {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Artifact %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("ID: ") + valueStyle.Render(artifact.ID) + "\n")
			if artifact.Name != nil {
				sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(*artifact.Name) + "\n")
			}
		}
	}

	if len(t.Metadata) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Metadata") + "\n")
		keys := make([]string, 0, len(t.Metadata))
		for k := range t.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(bullet + labelStyle.Render(k+": ") + valueStyle.Render(fmt.Sprintf("%v", t.Metadata[k])) + "\n")
		}
	}

	return sb.String()
}
