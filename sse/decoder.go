// Package sse reassembles server-sent-event records from a stream of raw
// text fragments that carry no alignment with record boundaries.
package sse

import "strings"

// doneSentinel is a data-less marker some backends emit. It carries no
// payload and does not terminate the stream; the transport does that.
const doneSentinel = "[DONE]"

// Decoder accumulates raw fragments and emits the data payload of each
// complete record. Records are delimited by a blank line. Within a record,
// only "data:" lines contribute to the payload; multiple data lines are
// joined with newlines and all other lines are ignored.
//
// The pending buffer is unbounded: a server that never emits a record
// boundary grows it without limit. Accepted limitation.
type Decoder struct {
	pending string
}

// NewDecoder creates an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends one fragment to the pending buffer and returns the payloads
// of every record completed by it, in order. A fragment may complete zero,
// one, or many records. The final record sequence is the same no matter how
// the input is split into fragments.
func (d *Decoder) Feed(fragment string) []string {
	d.pending += fragment

	var payloads []string
	for {
		idx := strings.Index(d.pending, "\n\n")
		if idx < 0 {
			return payloads
		}
		record := d.pending[:idx]
		d.pending = d.pending[idx+2:]
		if payload, ok := extractPayload(record); ok {
			payloads = append(payloads, payload)
		}
	}
}

// Flush drains the pending buffer at end-of-stream. Leftover non-empty
// content that never received a closing boundary is treated as one final
// record; trailing data must not be dropped silently.
func (d *Decoder) Flush() []string {
	record := d.pending
	d.pending = ""
	if record == "" {
		return nil
	}
	payload, ok := extractPayload(record)
	if !ok {
		return nil
	}
	return []string{payload}
}

// extractPayload collects the data lines of one record. It reports ok=false
// for records with no data lines and for the [DONE] no-op marker.
func extractPayload(record string) (string, bool) {
	var b strings.Builder
	found := false
	for _, line := range strings.Split(record, "\n") {
		line = strings.TrimSuffix(line, "\r")
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		// One space after the colon is part of the prefix, not the payload.
		data = strings.TrimPrefix(data, " ")
		if found {
			b.WriteByte('\n')
		}
		b.WriteString(data)
		found = true
	}
	if !found || b.String() == doneSentinel {
		return "", false
	}
	return b.String(), true
}
