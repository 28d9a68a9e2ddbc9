package mqtt

import "errors"

// Transport errors. Callers match them with errors.Is; most are wrapped
// together with the paho error that caused them.
var (
	// ErrNotConnected is returned while the broker connection is down.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned by Connect when no session could be
	// established.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrTLSConfig is returned when the CA or client certificate files
	// cannot be loaded.
	ErrTLSConfig = errors.New("mqtt: invalid TLS configuration")

	// ErrPublishFailed covers oversized payloads, broker rejection and
	// acknowledgement timeouts.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when the broker does not grant a
	// subscription.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed is returned when the broker does not confirm an
	// unsubscribe.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS is returned for QoS levels above 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned for an empty topic or filter.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
