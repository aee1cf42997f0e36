package agentwire

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a query failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates Next() was called on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
