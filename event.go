package agentwire

import "encoding/json"

// StreamEvent is one unit of streamed output from the backend: a response
// fragment attributed to the agent that produced it.
type StreamEvent struct {
	Agent    string `json:"agent"`
	Response string `json:"response"`
}

// ParseEvent interprets one decoded record payload as a StreamEvent.
//
// It succeeds only when the payload is a JSON object carrying both "agent"
// and "response" as non-empty strings. Anything else (invalid JSON, wrong
// value types, missing or empty fields) reports ok=false. Callers are
// expected to skip such records and keep consuming; one malformed record
// must never abort an otherwise-healthy stream.
func ParseEvent(payload []byte) (StreamEvent, bool) {
	var evt StreamEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return StreamEvent{}, false
	}
	if evt.Agent == "" || evt.Response == "" {
		return StreamEvent{}, false
	}
	return evt, true
}
