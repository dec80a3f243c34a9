package runner

import (
	"context"
	"strings"
)

// Echo is the dependency-free default Runner: it echoes the input back as
// output, optionally split into two token chunks when streaming, so the
// "out of the box" experience and the test suite never need a live model.
type Echo struct {
	// Prefix is prepended to Output; empty means no prefix.
	Prefix string
}

func NewEcho() *Echo { return &Echo{} }

func (r *Echo) Run(ctx context.Context, agent *Agent, opts Options) (*Result, error) {
	if canceled(opts.CancelSignal) {
		return nil, ErrCanceled
	}

	output := r.Prefix + opts.Input

	if opts.Stream && opts.OnToken != nil {
		for _, chunk := range splitTwo(output) {
			if canceled(opts.CancelSignal) {
				return nil, ErrCanceled
			}
			opts.OnToken(chunk)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return &Result{
		Output: output,
		Usage:  Usage{PromptTokens: len(strings.Fields(opts.Input)), CompletionTokens: len(strings.Fields(output))},
	}, nil
}

// splitTwo divides s into at most two roughly-equal, non-empty chunks so a
// streaming Echo run still demonstrates multi-token delivery.
func splitTwo(s string) []string {
	if s == "" {
		return nil
	}
	mid := len(s) / 2
	if mid == 0 {
		return []string{s}
	}
	return []string{s[:mid], s[mid:]}
}
