// Package mqtt provides the MQTT transport of the Ditto agent.
//
// This package manages:
//   - Connection to the broker (usually a Hono MQTT adapter) with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions restored after every reconnect
//   - TLS with an optional private CA and client certificate
//   - The Hono device topic scheme and request id correlation
//
// # Architecture
//
// Ditto talks to devices through Eclipse Hono. The device subscribes to
// command requests and answers on a response topic carrying the request
// id and the status:
//
//	Ditto ↔ Hono MQTT adapter ↔ this agent
//
//	command///req/{requestId}/{subject}   inbound request
//	command///res/{requestId}/{status}    outbound response
//	e, t                                  outbound events and telemetry
//
// # Security Considerations
//
//   - TLS should be enabled for any broker outside localhost (cfg.Broker.TLS=true)
//   - Credentials are checked by the broker; Hono expects "device@tenant" usernames
//   - Payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.CommandRequests(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("request %q: %s", mqtt.ExtractRequestID(topic), payload)
//	        return nil
//	    })
//
//	client.Publish(mqtt.Topics{}.CommandResponse("42", 204), payload, 1, false)
package mqtt
