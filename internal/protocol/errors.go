package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge is returned when a message cannot be described by one length byte.
	ErrPayloadTooLarge = errors.New("payload exceeds 255 bytes")
	// ErrMalformedGuess is returned for client payloads that are neither a guess nor a
	// termination signal.
	ErrMalformedGuess = errors.New("malformed guess")
	// ErrUnknownPhase is returned by Decode for a Phase it does not recognize.
	ErrUnknownPhase = errors.New("unknown decode phase")
	// ErrUnknownMessage is returned by Marshal for a Message type it does not recognize.
	ErrUnknownMessage = errors.New("unknown message type")
)

// FramingError reports a message that ended before all of its declared bytes arrived.
type FramingError struct {
	Expected int
	Received int
	Err      error
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing error: expected %d bytes, received %d: %v", e.Expected, e.Received, e.Err)
}

func (e *FramingError) Unwrap() error { return e.Err }
