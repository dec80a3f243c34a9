package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoRunNonStreaming(t *testing.T) {
	r := NewEcho()

	result, err := r.Run(context.Background(), nil, Options{Input: "Hello"})

	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Output)
	assert.Nil(t, result.Structured)
}

func TestEchoRunStreamingEmitsTokensBeforeReturning(t *testing.T) {
	r := NewEcho()
	var tokens []string

	result, err := r.Run(context.Background(), nil, Options{
		Input:  "Hello",
		Stream: true,
		OnToken: func(tok string) {
			tokens = append(tokens, tok)
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens)
	assert.Equal(t, "Hello", joinStrings(tokens))
	assert.Equal(t, "Hello", result.Output)
}

func TestEchoRunHonorsCancelSignal(t *testing.T) {
	r := NewEcho()
	sig := make(chan struct{})
	close(sig)

	_, err := r.Run(context.Background(), nil, Options{Input: "Hello", CancelSignal: sig})

	assert.ErrorIs(t, err, ErrCanceled)
}

func joinStrings(parts []string) string {
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}
