// Package things builds Ditto protocol signals for the things group.
//
// A signal is a Command, an Event or a Message. Each is a small mutable
// builder bound to one thing id: action methods set the topic action,
// path methods address a sub-resource of the thing, and Envelope
// produces the wire message. The last action call and the last path call
// win; nothing is validated before Envelope.
//
//	env := things.NewCommand(thingID).
//		FeatureProperty("accelerometer", "x").
//		Modify(42).
//		Envelope(protocol.CorrelationID(id))
//
// Builders hold their topic by value, so changing a builder after calling
// Envelope never alters an envelope it already produced.
package things
