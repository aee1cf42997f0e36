package agentwire

import (
	"context"
	"io"
	"sync"
)

// bridgeItem is one queued handoff unit: an event, an end marker, or a
// terminal error.
type bridgeItem struct {
	evt StreamEvent
	err error
	end bool
}

// Bridge adapts a push-style producer to a pull-style consumer without
// busy-waiting. The producer side calls Push for each event and finishes
// with exactly one Complete or Fail; the consumer side calls Next.
//
// Items are delivered in push order. Events pushed before the terminal
// marker are drained before Next reports io.EOF or the error, so a bursty
// producer never loses buffered output. The queue is unbounded: backpressure
// on the producer is not this type's job.
//
// Bridge supports one producer goroutine and one consumer goroutine. The
// wake channel holds at most one token, mirroring the single outstanding
// pull the consumer can have.
type Bridge struct {
	mu       sync.Mutex
	queue    []bridgeItem
	done     error // sticky terminal result once the marker is consumed
	terminal bool  // a terminal item has been enqueued
	wake     chan struct{}
}

// NewBridge creates an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{wake: make(chan struct{}, 1)}
}

// Push enqueues one event. Calls after Complete or Fail are ignored.
func (b *Bridge) Push(evt StreamEvent) {
	b.enqueue(bridgeItem{evt: evt})
}

// Complete enqueues the end-of-stream marker. At most one terminal marker
// is ever enqueued; later Complete and Fail calls are ignored.
func (b *Bridge) Complete() {
	b.enqueue(bridgeItem{end: true})
}

// Fail enqueues a terminal error. At most one terminal marker is ever
// enqueued; later Complete and Fail calls are ignored.
func (b *Bridge) Fail(err error) {
	b.enqueue(bridgeItem{err: err})
}

func (b *Bridge) enqueue(it bridgeItem) {
	b.mu.Lock()
	if b.terminal {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, it)
	if it.end || it.err != nil {
		b.terminal = true
	}
	b.mu.Unlock()

	// Wake the consumer if it is parked in Next. Non-blocking: a pending
	// token already guarantees the consumer will re-check the queue.
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Next returns the next pushed event, suspending until the producer
// delivers one. It returns io.EOF once the Complete marker is reached and
// the producer's error once the Fail marker is reached; both outcomes are
// sticky. If ctx ends first, Next returns ctx.Err() without consuming
// anything.
func (b *Bridge) Next(ctx context.Context) (StreamEvent, error) {
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			it := b.queue[0]
			b.queue = b.queue[1:]
			switch {
			case it.end:
				b.done = io.EOF
			case it.err != nil:
				b.done = it.err
			}
			b.mu.Unlock()
			if it.end || it.err != nil {
				return StreamEvent{}, b.doneErr()
			}
			return it.evt, nil
		}
		if b.done != nil {
			done := b.done
			b.mu.Unlock()
			return StreamEvent{}, done
		}
		b.mu.Unlock()

		select {
		case <-b.wake:
		case <-ctx.Done():
			return StreamEvent{}, ctx.Err()
		}
	}
}

func (b *Bridge) doneErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}
