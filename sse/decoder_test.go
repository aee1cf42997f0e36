package sse_test

import (
	"testing"

	"github.com/fwojciec/agentwire/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode runs a fragment sequence through a fresh Decoder and returns all
// payloads including the end-of-stream flush.
func decode(fragments ...string) []string {
	d := sse.NewDecoder()
	var payloads []string
	for _, f := range fragments {
		payloads = append(payloads, d.Feed(f)...)
	}
	return append(payloads, d.Flush()...)
}

func TestDecoder_SingleRecord(t *testing.T) {
	t.Parallel()

	got := decode("data: {\"agent\":\"A\",\"response\":\"hi\"}\n\n")
	assert.Equal(t, []string{`{"agent":"A","response":"hi"}`}, got)
}

func TestDecoder_RecordSplitAcrossFragments(t *testing.T) {
	t.Parallel()

	// Concrete scenario: a record arriving in two raw pieces splits inside
	// the JSON payload. The decoder must reassemble it untouched.
	got := decode("data: {\"agent\":\"A\"", ",\"response\":\"hi\"}\n\n")
	assert.Equal(t, []string{`{"agent":"A","response":"hi"}`}, got)
}

func TestDecoder_MultipleRecordsInOneFragment(t *testing.T) {
	t.Parallel()

	got := decode("data: one\n\ndata: two\n\ndata: three\n\n")
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestDecoder_IdempotentUnderRechunking(t *testing.T) {
	t.Parallel()

	const input = "data: alpha\n\nevent: message\ndata: beta\ndata: gamma\n\n: comment\n\ndata: delta\n\n"
	want := []string{"alpha", "beta\ngamma", "delta"}

	// Whole input at once.
	assert.Equal(t, want, decode(input))

	// One byte at a time.
	d := sse.NewDecoder()
	var got []string
	for _, b := range []byte(input) {
		got = append(got, d.Feed(string(b))...)
	}
	got = append(got, d.Flush()...)
	assert.Equal(t, want, got)

	// Every two-way split.
	for i := 1; i < len(input); i++ {
		got := decode(input[:i], input[i:])
		require.Equal(t, want, got, "split at byte %d", i)
	}
}

func TestDecoder_PrefixVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"space after colon", "data: hello\n\n", []string{"hello"}},
		{"no space after colon", "data:hello\n\n", []string{"hello"}},
		{"extra spaces preserved", "data:  hello\n\n", []string{" hello"}},
		{"crlf line endings", "data: hello\r\n\ndata: again\n\n", []string{"hello", "again"}},
		{"non-data lines ignored", "event: delta\nid: 7\ndata: hello\n\n", []string{"hello"}},
		{"record with no data lines skipped", "event: ping\n\ndata: hello\n\n", []string{"hello"}},
		{"empty record skipped", "\n\ndata: hello\n\n", []string{"hello"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decode(tt.in))
		})
	}
}

func TestDecoder_DoneSentinelIsNoOp(t *testing.T) {
	t.Parallel()

	got := decode("data: one\n\ndata: [DONE]\n\ndata: two\n\n")
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestDecoder_FlushOnClose(t *testing.T) {
	t.Parallel()

	d := sse.NewDecoder()
	got := d.Feed("data: complete\n\ndata: trailing")
	assert.Equal(t, []string{"complete"}, got)

	// The unterminated tail becomes one final record at end-of-stream.
	assert.Equal(t, []string{"trailing"}, d.Flush())

	// Flush is drained; a second call yields nothing.
	assert.Empty(t, d.Flush())
}

func TestDecoder_FlushSkipsNonDataTail(t *testing.T) {
	t.Parallel()

	d := sse.NewDecoder()
	d.Feed("event: ping")
	assert.Empty(t, d.Flush())
}
