package runner

import (
	"context"
	"errors"
	"io"
	"os"

	deepseek "github.com/cohesion-org/deepseek-go"
)

// Deepseek backs Run with the Deepseek chat completion API.
type Deepseek struct {
	client *deepseek.Client
	Model  string
}

type DeepseekOption func(*Deepseek)

func NewDeepseek(opts ...DeepseekOption) *Deepseek {
	r := &Deepseek{Model: deepseek.DeepSeekChat}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = deepseek.NewClient(os.Getenv("DEEPSEEK_API_KEY"))
	}
	return r
}

func WithDeepseekRunnerClient(client *deepseek.Client) DeepseekOption {
	return func(r *Deepseek) { r.client = client }
}

func WithDeepseekRunnerModel(model string) DeepseekOption {
	return func(r *Deepseek) { r.Model = model }
}

func (r *Deepseek) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	model := r.Model
	if agent != nil && agent.Model != "" {
		model = agent.Model
	}

	messages := []deepseek.ChatCompletionMessage{}
	if agent != nil && agent.Instructions != "" {
		messages = append(messages, deepseek.ChatCompletionMessage{Role: deepseek.ChatMessageRoleSystem, Content: agent.Instructions})
	}
	messages = append(messages, deepseek.ChatCompletionMessage{Role: deepseek.ChatMessageRoleUser, Content: opts.Input})

	result := &Result{}

	if opts.Stream {
		stream, err := r.client.CreateChatCompletionStream(ctx, &deepseek.StreamChatCompletionRequest{
			Model:    model,
			Messages: messages,
			Tools:    convertToolsDeepseek(agentTools(agent)),
			Stream:   true,
		})
		if err != nil {
			return nil, err
		}
		defer stream.Close()

		for {
			if canceled(opts.CancelSignal) {
				return nil, ErrCanceled
			}

			resp, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}

			for _, choice := range resp.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				result.Output += choice.Delta.Content
				if opts.OnToken != nil {
					opts.OnToken(choice.Delta.Content)
				}
			}
		}

		return result, nil
	}

	if canceled(opts.CancelSignal) {
		return nil, ErrCanceled
	}

	response, err := r.client.CreateChatCompletion(ctx, &deepseek.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Tools:    convertToolsDeepseek(agentTools(agent)),
	})
	if err != nil {
		return nil, err
	}

	if len(response.Choices) > 0 {
		result.Output = response.Choices[0].Message.Content
	}
	result.Usage = Usage{
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		TotalTokens:      response.Usage.TotalTokens,
	}
	return result, nil
}

func convertToolsDeepseek(tools []*toolSpec) []deepseek.Tool {
	out := make([]deepseek.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, deepseek.Tool{
			Type: "function",
			Function: deepseek.Function{
				Name:        t.Name,
				Description: t.Description,
				Parameters: &deepseek.FunctionParameters{
					Type:       "object",
					Properties: t.Properties,
					Required:   t.Required,
				},
			},
		})
	}
	return out
}
