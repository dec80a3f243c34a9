package runner

import (
	"context"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"
)

// Anthropic backs Run with the Anthropic Messages API, streaming through
// OnToken when asked and accumulating tool calls into the Result.
type Anthropic struct {
	client    *anthropic.Client
	Model     string
	MaxTokens int64
}

type AnthropicOption func(*Anthropic)

func NewAnthropic(opts ...AnthropicOption) *Anthropic {
	r := &Anthropic{Model: "claude-sonnet-4-5", MaxTokens: 4096}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		client := anthropic.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
		r.client = &client
	}
	return r
}

func WithAnthropicClient(client *anthropic.Client) AnthropicOption {
	return func(r *Anthropic) { r.client = client }
}

func WithAnthropicModel(model string) AnthropicOption {
	return func(r *Anthropic) { r.Model = model }
}

func (r *Anthropic) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	model := r.Model
	if agent != nil && agent.Model != "" {
		model = agent.Model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: r.MaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(opts.Input))},
		Tools:     convertToolsAnthropic(agentTools(agent)),
	}
	if agent != nil && agent.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: agent.Instructions}}
	}

	result := &Result{}

	if opts.Stream {
		stream := r.client.Messages.NewStreaming(ctx, params)
		message := anthropic.Message{}

		for stream.Next() {
			if canceled(opts.CancelSignal) {
				return nil, ErrCanceled
			}

			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				log.Error("anthropic runner: accumulate failed", "error", err)
				continue
			}

			if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok && delta.Delta.Text != "" {
				result.Output += delta.Delta.Text
				if opts.OnToken != nil {
					opts.OnToken(delta.Delta.Text)
				}
			}
		}
		if stream.Err() != nil {
			return nil, stream.Err()
		}
		result.Usage = Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
		result.ToolCalls = collectToolUseAnthropic(message)
		return result, nil
	}

	if canceled(opts.CancelSignal) {
		return nil, ErrCanceled
	}

	message, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.Output += text.Text
		}
	}
	result.Usage = Usage{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}
	result.ToolCalls = collectToolUseAnthropic(*message)
	return result, nil
}

func collectToolUseAnthropic(message anthropic.Message) []ToolCall {
	var calls []ToolCall
	for _, block := range message.Content {
		if use, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			calls = append(calls, ToolCall{ID: use.ID, Name: use.Name, Arguments: string(use.Input)})
		}
	}
	return calls
}

func convertToolsAnthropic(tools []*toolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		param := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: t.Properties},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &param})
	}
	return out
}
