package client

import "github.com/nerrad567/gray-logic-ditto/internal/infrastructure/mqtt"

// Transport is the MQTT connection a Client runs on.
//
// *mqtt.Client satisfies it. The Client never connects or disconnects the
// transport itself; the owner does.
type Transport interface {
	// Publish sends payload to topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers handler for a topic filter.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// Unsubscribe removes the subscription for a topic filter.
	Unsubscribe(topic string) error

	// IsConnected reports whether the transport is connected.
	IsConnected() bool
}

var _ Transport = (*mqtt.Client)(nil)
