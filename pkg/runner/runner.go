// Package runner defines the narrow contract the task lifecycle engine
// uses to invoke an external LLM or agent runtime, plus a deterministic
// EchoRunner and a set of swappable provider-backed adapters.
package runner

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrCanceled is returned by a Runner when it observes CancelSignal firing
// before it can produce a result. The Task Manager classifies a run that
// fails with this error as canceled rather than failed.
var ErrCanceled = errors.New("runner: run canceled")

// Agent is the opaque handle passed to Run. It carries just enough for an
// adapter to pick a model and advertise tools; the task lifecycle engine
// never inspects its fields itself.
type Agent struct {
	Name         string
	Model        string
	Instructions string
	Tools        []*mcp.Tool
}

// Options configures a single Run invocation.
type Options struct {
	// Input is the newline-joined text of the triggering message's text parts.
	Input string
	// CancelSignal closes when tasks/cancel fires for this run.
	CancelSignal <-chan struct{}
	// Stream is true when the caller of ExecuteTask asked to stream, i.e.
	// passed a non-nil token callback.
	Stream bool
	// OnToken is called, in order, for every token/chunk the Runner produces
	// before it returns. The Task Manager always sets it, even when Stream
	// is false, so it also mirrors tokens onto the task's event bus.
	OnToken func(string)
}

// Usage reports token accounting, when the backing provider exposes it.
type Usage struct {
	PromptTokens     int `json:"promptTokens,omitempty"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens,omitempty"`
}

// ToolCall records a tool invocation the Runner made while producing Output.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Result is what a Runner hands back once it has finished producing output
// for a single invocation. Structured is non-nil only when the agent
// produced a parseable structured payload alongside its text output.
type Result struct {
	Output     string         `json:"output"`
	Structured any            `json:"structured,omitempty"`
	Usage      Usage          `json:"usage,omitempty"`
	ToolCalls  []ToolCall     `json:"toolCalls,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Runner is the single contract the engine depends on. Implementations are
// expected to finish emitting tokens through Options.OnToken before they
// return, and to honor Options.CancelSignal by returning ErrCanceled.
type Runner interface {
	Run(ctx context.Context, agent *Agent, opts Options) (*Result, error)
}

// canceled reports whether sig has fired without blocking.
func canceled(sig <-chan struct{}) bool {
	if sig == nil {
		return false
	}
	select {
	case <-sig:
		return true
	default:
		return false
	}
}
