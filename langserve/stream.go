package langserve

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/agentwire"
	"github.com/fwojciec/agentwire/sse"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ agentwire.Stream = (*stream)(nil)

// stream implements [agentwire.Stream] over an SSE response body.
//
// A producer goroutine reads the body in raw chunks, frames them with an
// [sse.Decoder], parses each record, and pushes the results into an
// [agentwire.Bridge]; Next pulls from the bridge. Cancelling the request
// context aborts the body read, so Close tears the producer down promptly.
//
// state and err belong to the consumer side. Next, State and Close must be
// called from a single goroutine, matching the one-consumer contract.
type stream struct {
	bridge *agentwire.Bridge
	body   io.ReadCloser
	cancel context.CancelFunc
	logger zerolog.Logger

	releaseOnce sync.Once
	state       agentwire.StreamState
	err         error
}

func newStream(cancel context.CancelFunc, body io.ReadCloser, logger zerolog.Logger) *stream {
	s := &stream{
		bridge: agentwire.NewBridge(),
		body:   body,
		cancel: cancel,
		logger: logger,
		state:  agentwire.StreamStateActive,
	}
	go s.produce()
	return s
}

// produce drives the transport-to-bridge pipeline until end-of-stream or a
// read error, then enqueues the terminal marker. It is the only goroutine
// touching the body and the decoder.
func (s *stream) produce() {
	defer s.body.Close()

	dec := sse.NewDecoder()
	buf := make([]byte, 4096)
	for {
		n, err := s.body.Read(buf)
		if n > 0 {
			s.emit(dec.Feed(string(buf[:n])))
		}
		switch {
		case err == io.EOF:
			// Trailing content with no closing boundary is still one record.
			s.emit(dec.Flush())
			s.bridge.Complete()
			s.logger.Debug().Msg("stream completed")
			return
		case err != nil:
			s.bridge.Fail(fmt.Errorf("langserve: %w", err))
			s.logger.Debug().Err(err).Msg("stream failed")
			return
		}
	}
}

// emit parses decoded record payloads into events. Malformed records are
// logged and skipped; the stream keeps going.
func (s *stream) emit(payloads []string) {
	for _, payload := range payloads {
		evt, ok := agentwire.ParseEvent([]byte(payload))
		if !ok {
			s.logger.Warn().Str("payload", payload).Msg("skipping malformed stream record")
			continue
		}
		s.bridge.Push(evt)
	}
}

// Next returns the next event, suspending until one is available. It
// returns io.EOF after the stream completes and the transport error after it
// fails; events already framed before the failure are drained first.
func (s *stream) Next() (agentwire.StreamEvent, error) {
	switch s.state {
	case agentwire.StreamStateCompleted:
		return agentwire.StreamEvent{}, io.EOF
	case agentwire.StreamStateErrored:
		return agentwire.StreamEvent{}, s.err
	case agentwire.StreamStateCancelled:
		return agentwire.StreamEvent{}, agentwire.ErrStreamClosed
	}

	// The producer always terminates the bridge, so no extra deadline here.
	evt, err := s.bridge.Next(context.Background())
	switch {
	case err == io.EOF:
		s.state = agentwire.StreamStateCompleted
		s.release()
		return agentwire.StreamEvent{}, io.EOF
	case err != nil:
		s.state = agentwire.StreamStateErrored
		s.err = err
		s.release()
		return agentwire.StreamEvent{}, err
	}
	return evt, nil
}

// State returns the stream state as observed by the consumer.
func (s *stream) State() agentwire.StreamState {
	return s.state
}

// Close cancels the underlying transport and marks the stream cancelled if
// it had not already reached a terminal state. Safe to call multiple times;
// the transport is cancelled at most once.
func (s *stream) Close() error {
	s.release()
	if s.state == agentwire.StreamStateActive {
		s.state = agentwire.StreamStateCancelled
	}
	return nil
}

// release cancels the request context exactly once. The producer's body
// read unblocks and its deferred body.Close runs.
func (s *stream) release() {
	s.releaseOnce.Do(s.cancel)
}
