package runner

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ollama/ollama/api"
)

// Ollama backs Run against a local or remote Ollama daemon via its Chat API.
type Ollama struct {
	client *api.Client
	Model  string
}

type OllamaOption func(*Ollama)

func NewOllama(opts ...OllamaOption) *Ollama {
	r := &Ollama{Model: "llama3.1"}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			log.Error("ollama runner: failed to construct client from environment", "error", err)
		} else {
			r.client = client
		}
	}
	return r
}

func WithOllamaRunnerClient(client *api.Client) OllamaOption {
	return func(r *Ollama) { r.client = client }
}

func WithOllamaRunnerModel(model string) OllamaOption {
	return func(r *Ollama) { r.Model = model }
}

func (r *Ollama) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	model := r.Model
	if agent != nil && agent.Model != "" {
		model = agent.Model
	}

	messages := []api.Message{}
	if agent != nil && agent.Instructions != "" {
		messages = append(messages, api.Message{Role: "system", Content: agent.Instructions})
	}
	messages = append(messages, api.Message{Role: "user", Content: opts.Input})

	stream := opts.Stream
	req := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Tools:    convertToolsOllama(agentTools(agent)),
		Stream:   &stream,
	}

	result := &Result{}

	respFunc := func(resp api.ChatResponse) error {
		if canceled(opts.CancelSignal) {
			return ErrCanceled
		}
		if len(resp.Message.ToolCalls) > 0 {
			for _, tc := range resp.Message.ToolCalls {
				result.ToolCalls = append(result.ToolCalls, ToolCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments.String(),
				})
			}
			return nil
		}
		if resp.Message.Content != "" {
			result.Output += resp.Message.Content
			if opts.Stream && opts.OnToken != nil {
				opts.OnToken(resp.Message.Content)
			}
		}
		if resp.Done {
			result.Usage = Usage{
				PromptTokens:     resp.PromptEvalCount,
				CompletionTokens: resp.EvalCount,
				TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
			}
		}
		return nil
	}

	if err := r.client.Chat(ctx, req, respFunc); err != nil {
		if err == ErrCanceled {
			return nil, ErrCanceled
		}
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	return result, nil
}

func convertToolsOllama(tools []*toolSpec) []api.Tool {
	out := make([]api.Tool, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]struct {
			Type        api.PropertyType `json:"type"`
			Items       any              `json:"items,omitempty"`
			Description string           `json:"description"`
			Enum        []any            `json:"enum,omitempty"`
		})
		for name, raw := range t.Properties {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			typ, _ := m["type"].(string)
			desc, _ := m["description"].(string)
			enum, _ := m["enum"].([]any)
			props[name] = struct {
				Type        api.PropertyType `json:"type"`
				Items       any              `json:"items,omitempty"`
				Description string           `json:"description"`
				Enum        []any            `json:"enum,omitempty"`
			}{Type: api.PropertyType{typ}, Description: desc, Enum: enum}
		}

		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters: struct {
					Type       string   `json:"type"`
					Defs       any      `json:"$defs,omitempty"`
					Items      any      `json:"items,omitempty"`
					Required   []string `json:"required"`
					Properties map[string]struct {
						Type        api.PropertyType `json:"type"`
						Items       any              `json:"items,omitempty"`
						Description string           `json:"description"`
						Enum        []any            `json:"enum,omitempty"`
					} `json:"properties"`
				}{
					Type:       "object",
					Required:   t.Required,
					Properties: props,
				},
			},
		})
	}
	return out
}
