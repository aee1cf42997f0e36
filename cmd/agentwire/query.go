package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/agentwire"
	bt "github.com/fwojciec/agentwire/bubbletea"
	"github.com/fwojciec/agentwire/fs"
)

// buildPrompt prepends file context matched by contextGlob to the prompt.
// An empty glob returns the prompt unchanged.
func buildPrompt(prompt, contextGlob string) (string, error) {
	if contextGlob == "" {
		return prompt, nil
	}
	files, err := fs.Collect(".", contextGlob)
	if err != nil {
		return "", fmt.Errorf("collect context: %w", err)
	}
	return fs.Prompt(prompt, files), nil
}

// queryFunc adapts a Querier into the TUI's QueryFunc, applying the
// context glob to every submitted prompt.
func queryFunc(q agentwire.Querier, contextGlob string) bt.QueryFunc {
	return func(ctx context.Context, prompt string, onEvent func(agentwire.StreamEvent)) error {
		promptText, err := buildPrompt(prompt, contextGlob)
		if err != nil {
			return err
		}
		return forEachEvent(ctx, q, promptText, onEvent)
	}
}

// forEachEvent runs one streaming query, invoking onEvent for each event
// until the stream completes. The stream is closed before returning.
func forEachEvent(ctx context.Context, q agentwire.Querier, prompt string, onEvent func(agentwire.StreamEvent)) error {
	stream, err := q.StreamQuery(ctx, agentwire.Query{Prompt: prompt})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Cancellation surfaces as a transport failure; report the
			// caller's reason instead.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		onEvent(evt)
	}
}

func streamToStdout(ctx context.Context, q agentwire.Querier, prompt string) error {
	return forEachEvent(ctx, q, prompt, func(evt agentwire.StreamEvent) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", evt.Agent, evt.Response)
	})
}
