package runner

import (
	"context"
	"errors"
	"io"
	"os"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Cohere backs Run with the Cohere Chat API.
type Cohere struct {
	client *cohereclient.Client
	Model  string
}

type CohereOption func(*Cohere)

func NewCohere(opts ...CohereOption) *Cohere {
	r := &Cohere{Model: "command-r-plus"}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = cohereclient.NewClient(cohereclient.WithToken(os.Getenv("COHERE_API_KEY")))
	}
	return r
}

func WithCohereRunnerClient(client *cohereclient.Client) CohereOption {
	return func(r *Cohere) { r.client = client }
}

func WithCohereRunnerModel(model string) CohereOption {
	return func(r *Cohere) { r.Model = model }
}

func (r *Cohere) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	model := r.Model
	if agent != nil && agent.Model != "" {
		model = agent.Model
	}

	message := opts.Input
	if agent != nil && agent.Instructions != "" {
		message = agent.Instructions + "\n\n" + opts.Input
	}

	result := &Result{}

	if opts.Stream {
		stream, err := r.client.ChatStream(ctx, &cohere.ChatStreamRequest{
			Model:   &model,
			Message: message,
			Tools:   convertToolsCohere(agentTools(agent)),
		})
		if err != nil {
			return nil, err
		}

		for {
			if canceled(opts.CancelSignal) {
				return nil, ErrCanceled
			}

			event, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}

			if tg := event.GetTextGeneration(); tg != nil {
				chunk := tg.GetText()
				result.Output += chunk
				if opts.OnToken != nil {
					opts.OnToken(chunk)
				}
			}
			if tcg := event.GetToolCallsGeneration(); tcg != nil {
				for _, tc := range tcg.GetToolCalls() {
					result.ToolCalls = append(result.ToolCalls, ToolCall{Name: tc.Name})
				}
			}
		}

		return result, nil
	}

	if canceled(opts.CancelSignal) {
		return nil, ErrCanceled
	}

	response, err := r.client.Chat(ctx, &cohere.ChatRequest{
		Model:   &model,
		Message: message,
		Tools:   convertToolsCohere(agentTools(agent)),
	})
	if err != nil {
		return nil, err
	}

	result.Output = response.GetText()
	for _, tc := range response.GetToolCalls() {
		result.ToolCalls = append(result.ToolCalls, ToolCall{Name: tc.Name})
	}
	return result, nil
}

func convertToolsCohere(tools []*toolSpec) []*cohere.Tool {
	out := make([]*cohere.Tool, 0, len(tools))
	for _, t := range tools {
		paramDefs := make(map[string]*cohere.ToolParameterDefinitionsValue)
		for name, raw := range t.Properties {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			desc, _ := m["description"].(string)
			typ, _ := m["type"].(string)
			paramDefs[name] = &cohere.ToolParameterDefinitionsValue{
				Description: cohere.String(desc),
				Type:        typ,
			}
		}
		out = append(out, &cohere.Tool{
			Name:                 t.Name,
			Description:          t.Description,
			ParameterDefinitions: paramDefs,
		})
	}
	return out
}
