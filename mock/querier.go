// Package mock provides test doubles for agentwire interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/fwojciec/agentwire"
)

// Interface compliance checks.
var (
	_ agentwire.Querier = (*Querier)(nil)
	_ agentwire.Stream  = (*Stream)(nil)
)

// Querier is a test double for agentwire.Querier.
// Set the function field for each method you need before calling it.
type Querier struct {
	RunQueryFn    func(ctx context.Context, q agentwire.Query) (string, error)
	StreamQueryFn func(ctx context.Context, q agentwire.Query) (agentwire.Stream, error)
}

// RunQuery delegates to RunQueryFn.
func (q *Querier) RunQuery(ctx context.Context, query agentwire.Query) (string, error) {
	return q.RunQueryFn(ctx, query)
}

// StreamQuery delegates to StreamQueryFn.
func (q *Querier) StreamQuery(ctx context.Context, query agentwire.Query) (agentwire.Stream, error) {
	return q.StreamQueryFn(ctx, query)
}
