package mock

import (
	"io"

	"github.com/fwojciec/agentwire"
)

// Stream is a test double for agentwire.Stream.
// NextFn panics when nil to catch missing setup. StateFn and CloseFn are
// nil-safe (zero value and no-op) because test code commonly calls
// defer stream.Close() and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (agentwire.StreamEvent, error)
	StateFn func() agentwire.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (agentwire.StreamEvent, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateActive when StateFn is nil.
func (s *Stream) State() agentwire.StreamState {
	if s.StateFn == nil {
		return agentwire.StreamStateActive
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// EventStream returns a Stream that yields the given events in order, then
// io.EOF (or err, when non-nil, after the events). Close is counted so
// tests can assert teardown happened.
func EventStream(events []agentwire.StreamEvent, err error) *ScriptedStream {
	return &ScriptedStream{events: events, terminal: err}
}

// Interface compliance check.
var _ agentwire.Stream = (*ScriptedStream)(nil)

// ScriptedStream replays a fixed event sequence. It tracks Close calls.
type ScriptedStream struct {
	events   []agentwire.StreamEvent
	terminal error
	pos      int
	closed   int
	state    agentwire.StreamState
}

// Next returns the next scripted event, then the terminal error (io.EOF
// when none was given).
func (s *ScriptedStream) Next() (agentwire.StreamEvent, error) {
	if s.pos < len(s.events) {
		evt := s.events[s.pos]
		s.pos++
		return evt, nil
	}
	if s.terminal != nil {
		s.state = agentwire.StreamStateErrored
		return agentwire.StreamEvent{}, s.terminal
	}
	s.state = agentwire.StreamStateCompleted
	return agentwire.StreamEvent{}, io.EOF
}

// State returns the scripted stream's state.
func (s *ScriptedStream) State() agentwire.StreamState { return s.state }

// Close records the call and marks the stream cancelled if still active.
func (s *ScriptedStream) Close() error {
	s.closed++
	if s.state == agentwire.StreamStateActive {
		s.state = agentwire.StreamStateCancelled
	}
	return nil
}

// CloseCount returns how many times Close was called.
func (s *ScriptedStream) CloseCount() int { return s.closed }
