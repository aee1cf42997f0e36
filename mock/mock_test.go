package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/agentwire"
	"github.com/fwojciec/agentwire/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerier_Delegation(t *testing.T) {
	t.Parallel()

	q := &mock.Querier{
		RunQueryFn: func(ctx context.Context, query agentwire.Query) (string, error) {
			assert.Equal(t, "Hi", query.Prompt)
			return "hello", nil
		},
		StreamQueryFn: func(ctx context.Context, query agentwire.Query) (agentwire.Stream, error) {
			return mock.EventStream(nil, nil), nil
		},
	}

	got, err := q.RunQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	s, err := q.StreamQuery(context.Background(), agentwire.Query{Prompt: "Hi"})
	require.NoError(t, err)
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStream_NilSafeDefaults(t *testing.T) {
	t.Parallel()

	s := &mock.Stream{}
	assert.Equal(t, agentwire.StreamStateActive, s.State())
	assert.NoError(t, s.Close())
}

func TestScriptedStream_ReplaysEvents(t *testing.T) {
	t.Parallel()

	s := mock.EventStream([]agentwire.StreamEvent{
		{Agent: "A", Response: "one"},
		{Agent: "A", Response: "two"},
	}, nil)

	evt, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", evt.Response)

	evt, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, "two", evt.Response)

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, agentwire.StreamStateCompleted, s.State())
}

func TestScriptedStream_TerminalError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	s := mock.EventStream([]agentwire.StreamEvent{{Agent: "A", Response: "one"}}, sentinel)

	_, err := s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, agentwire.StreamStateErrored, s.State())
}

func TestScriptedStream_CloseTracking(t *testing.T) {
	t.Parallel()

	s := mock.EventStream(nil, nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 2, s.CloseCount())
	assert.Equal(t, agentwire.StreamStateCancelled, s.State())
}
