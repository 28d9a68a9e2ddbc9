// Package client implements the Ditto protocol client of a device.
//
// A Client sits on top of an MQTT transport using the Eclipse Hono topic
// scheme. It subscribes to command requests, decodes every inbound payload
// into a protocol.Envelope and fans it out to all registered handlers, each
// on its own goroutine. Handlers answer requests with Reply and emit events
// or telemetry with Send and SendTelemetry.
//
// Dispatch never waits for handlers. Use Wait during shutdown to let
// in-flight handlers finish.
//
// Example:
//
//	c := client.New(transport, client.WithLogger(log))
//	c.Subscribe(func(requestID string, env *protocol.Envelope) {
//	    if requestID == "" {
//	        return // one-way message
//	    }
//	    _ = c.Reply(requestID, env.WithStatus(204))
//	})
//	if err := c.Start(ctx); err != nil {
//	    return err
//	}
//	defer c.Stop(ctx)
package client
