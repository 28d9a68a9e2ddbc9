package client

import "errors"

// Domain-specific errors for the Ditto client.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrPublishFailed wraps a transport or encoding failure on Reply, Send
	// or SendTelemetry.
	ErrPublishFailed = errors.New("client: publish failed")

	// ErrHandlerNotFound is returned by Unsubscribe for a subscription that
	// is not registered.
	ErrHandlerNotFound = errors.New("client: handler not found")

	// ErrMissingStatus is returned by Reply when the envelope carries no
	// status, so no response topic can be built.
	ErrMissingStatus = errors.New("client: reply envelope has no status")

	// ErrNotStarted is returned by Stop on a client that is not started.
	ErrNotStarted = errors.New("client: not started")
)
