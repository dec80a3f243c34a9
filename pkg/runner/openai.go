package runner

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI backs Run with the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	Model  string
}

type OpenAIOption func(*OpenAI)

func NewOpenAI(opts ...OpenAIOption) *OpenAI {
	r := &OpenAI{Model: "gpt-4o-mini"}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		client := openai.NewClient(option.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
		r.client = &client
	}
	return r
}

func WithOpenAIRunnerClient(client *openai.Client) OpenAIOption {
	return func(r *OpenAI) { r.client = client }
}

func WithOpenAIRunnerModel(model string) OpenAIOption {
	return func(r *OpenAI) { r.Model = model }
}

func (r *OpenAI) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	model := r.Model
	if agent != nil && agent.Model != "" {
		model = agent.Model
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if agent != nil && agent.Instructions != "" {
		messages = append(messages, openai.SystemMessage(agent.Instructions))
	}
	messages = append(messages, openai.UserMessage(opts.Input))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
		Tools:    convertToolsOpenAI(agentTools(agent)),
	}

	result := &Result{}

	if opts.Stream {
		stream := r.client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}

		for stream.Next() {
			if canceled(opts.CancelSignal) {
				return nil, ErrCanceled
			}

			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				result.Output += chunk.Choices[0].Delta.Content
				if opts.OnToken != nil {
					opts.OnToken(chunk.Choices[0].Delta.Content)
				}
			}
		}
		if err := stream.Err(); err != nil {
			log.Error("openai runner: stream failed", "error", err)
			return nil, err
		}
		result.ToolCalls = collectToolCallsOpenAI(acc.ChatCompletion.Choices)
		result.Usage = Usage{
			PromptTokens:     int(acc.ChatCompletion.Usage.PromptTokens),
			CompletionTokens: int(acc.ChatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(acc.ChatCompletion.Usage.TotalTokens),
		}
		return result, nil
	}

	if canceled(opts.CancelSignal) {
		return nil, ErrCanceled
	}

	completion, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) > 0 {
		result.Output = completion.Choices[0].Message.Content
	}
	result.ToolCalls = collectToolCallsOpenAI(completion.Choices)
	result.Usage = Usage{
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
	return result, nil
}

func collectToolCallsOpenAI(choices []openai.ChatCompletionChoice) []ToolCall {
	if len(choices) == 0 {
		return nil
	}
	var calls []ToolCall
	for _, tc := range choices[0].Message.ToolCalls {
		calls = append(calls, ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	return calls
}

func convertToolsOpenAI(tools []*toolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(t.Properties),
			},
		})
	}
	return out
}
