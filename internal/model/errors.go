package model

import "errors"

// Domain errors for the model package.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformedIdentifier is returned when an identifier string lacks
	// the ':' separators its form requires.
	ErrMalformedIdentifier = errors.New("model: malformed identifier")

	// ErrNotThing is returned when a value shares no key with the Thing
	// JSON representation.
	ErrNotThing = errors.New("model: value is not a thing")

	// ErrNotFeature is returned when a value shares no key with the
	// Feature JSON representation.
	ErrNotFeature = errors.New("model: value is not a feature")
)
