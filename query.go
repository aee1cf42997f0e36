package agentwire

import (
	"context"
	"fmt"
)

// Query carries the prompt and optional pass-through parameters for one
// backend invocation. Config and Kwargs are forwarded verbatim in the
// request body; nil maps are sent as empty objects.
type Query struct {
	Prompt string
	Config map[string]any
	Kwargs map[string]any
}

// Validate checks universal constraints on Query.
// Transport implementations may apply additional validation.
func (q Query) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("prompt must be non-empty: %w", ErrValidation)
	}
	return nil
}

// Querier is a strategy pattern interface for agent backends.
//
// RunQuery performs a single-shot completion and returns the full response
// text. StreamQuery opens a streaming connection and returns a Stream of
// incremental events; the caller owns the Stream and must Close it.
// Cancellation flows through ctx: for RunQuery it aborts the request, for
// StreamQuery it tears down the live stream.
type Querier interface {
	RunQuery(ctx context.Context, q Query) (string, error)
	StreamQuery(ctx context.Context, q Query) (Stream, error)
}
