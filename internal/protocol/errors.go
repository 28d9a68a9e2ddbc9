package protocol

import "errors"

// Domain errors for the protocol package.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformedTopic is returned when a topic string has too few
	// segments or an unknown group.
	ErrMalformedTopic = errors.New("protocol: malformed topic")

	// ErrNotEnvelope is returned when decoded JSON is not a Ditto envelope.
	ErrNotEnvelope = errors.New("protocol: payload is not an envelope")

	// ErrInvalidPayload is returned when a payload is not valid JSON or an
	// envelope field has the wrong JSON type.
	ErrInvalidPayload = errors.New("protocol: invalid payload")
)
