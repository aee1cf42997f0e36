package agentwire

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateActive    StreamState = iota // Live: events may still arrive.
	StreamStateCompleted                    // Next() returned io.EOF.
	StreamStateErrored                      // Next() returned a non-EOF error.
	StreamStateCancelled                    // Close() called before a terminal state.
)

// String returns the state name for logging.
func (s StreamState) String() string {
	switch s {
	case StreamStateActive:
		return "active"
	case StreamStateCompleted:
		return "completed"
	case StreamStateErrored:
		return "errored"
	case StreamStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Stream is a pull-based sequence of StreamEvents produced by one streaming
// query. Each call opens a new transport connection; streams are finite and
// not restartable.
//
// Next() suspends until an event, end-of-stream, or error is available.
// It returns io.EOF after the last event of a completed stream, and the
// transport error on a failed one; no events are yielded after either.
// Events arrive in the exact order their source records completed framing.
//
// Close() releases the underlying transport. It is safe to call multiple
// times and from any state; the transport is cancelled at most once.
// Abandoning a stream without calling Close leaks the connection.
//
// State() reports where the stream is in its lifecycle. Completed, Errored
// and Cancelled are terminal.
type Stream interface {
	Next() (StreamEvent, error)
	State() StreamState
	Close() error
}
