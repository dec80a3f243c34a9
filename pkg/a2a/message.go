package a2a

import "strings"

// MessageRole is either "user" or "agent".
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

/*
Message represents a single turn of conversation. Parts is an ordered,
non-empty sequence. TaskID marks a message as a continuation of an
existing task; ContextID explicitly groups a message into a conversation
when no TaskID is present yet; ReferenceTaskIds lets a message point at
related tasks without continuing them.
*/
type Message struct {
	Role             MessageRole    `json:"role"`
	Parts            []Part         `json:"parts"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	TaskID           string         `json:"taskId,omitempty"`
	ContextID        string         `json:"contextId,omitempty"`
	ReferenceTaskIds []string       `json:"referenceTaskIds,omitempty"`
}

func NewTextMessage(role MessageRole, text string) *Message {
	return &Message{Role: role, Parts: []Part{NewTextPart(text)}}
}

func NewDataMessage(role MessageRole, mimeType string, data map[string]any) *Message {
	return &Message{Role: role, Parts: []Part{NewDataPart(mimeType, data)}}
}

// Text concatenates the text of every text part, newline-joined, matching
// the Task Manager's rule for building runner input from a message.
func (m *Message) Text() string {
	var lines []string
	for _, part := range m.Parts {
		if part.Type == PartTypeText && part.Text != "" {
			lines = append(lines, part.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Message) String() string {
	return m.Text()
}

// Valid reports whether the message has a recognized role and at least
// one well-formed part.
func (m *Message) Valid() bool {
	if m.Role != RoleUser && m.Role != RoleAgent {
		return false
	}
	if len(m.Parts) == 0 {
		return false
	}
	for _, p := range m.Parts {
		if !p.Valid() {
			return false
		}
	}
	return true
}
