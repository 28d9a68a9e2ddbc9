package things

import (
	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// Event announces a change to one thing.
type Event struct {
	signal
}

// NewEvent returns a twin event for the whole thing.
func NewEvent(thingID model.NamespacedID) *Event {
	return &Event{signal{
		topic: defaultTopic(thingID, protocol.ChannelTwin, protocol.CriterionEvents),
		path:  PathThing,
	}}
}

// WithTopic replaces the topic.
func (e *Event) WithTopic(topic protocol.Topic) *Event {
	e.topic = topic
	return e
}

// WithPath sets a raw resource path.
func (e *Event) WithPath(path string) *Event {
	e.path = path
	return e
}

// WithPayload sets the payload without changing the action.
func (e *Event) WithPayload(payload any) *Event {
	e.payload = payload
	return e
}

// Topic returns a copy of the current topic.
func (e *Event) Topic() protocol.Topic { return e.topic }

// Path returns the current resource path.
func (e *Event) Path() string { return e.path }

// Created reports that thing was created. The path is reset to the thing root.
func (e *Event) Created(thing *model.Thing) *Event {
	e.topic.Action = protocol.ActionCreated
	e.payload = thing
	e.path = PathThing
	return e
}

// Modified reports the new value of the addressed resource.
func (e *Event) Modified(payload any) *Event {
	e.topic.Action = protocol.ActionModified
	e.payload = payload
	return e
}

// Deleted reports that the addressed resource was deleted.
func (e *Event) Deleted() *Event {
	e.topic.Action = protocol.ActionDeleted
	return e
}

// PolicyID addresses the thing's policy id.
func (e *Event) PolicyID() *Event { return e.WithPath(PathThingPolicyID) }

// Definition addresses the thing's definition.
func (e *Event) Definition() *Event { return e.WithPath(PathThingDefinition) }

// Attributes addresses all attributes.
func (e *Event) Attributes() *Event { return e.WithPath(PathThingAttributes) }

// Attribute addresses one attribute.
func (e *Event) Attribute(p string) *Event { return e.WithPath(AttributePath(p)) }

// Features addresses all features.
func (e *Event) Features() *Event { return e.WithPath(PathThingFeatures) }

// Feature addresses one feature.
func (e *Event) Feature(featureID string) *Event { return e.WithPath(FeaturePath(featureID)) }

// FeatureDefinition addresses a feature's definition.
func (e *Event) FeatureDefinition(featureID string) *Event {
	return e.WithPath(FeatureDefinitionPath(featureID))
}

// FeatureProperties addresses a feature's properties.
func (e *Event) FeatureProperties(featureID string) *Event {
	return e.WithPath(FeaturePropertiesPath(featureID))
}

// FeatureProperty addresses one feature property.
func (e *Event) FeatureProperty(featureID, p string) *Event {
	return e.WithPath(FeaturePropertyPath(featureID, p))
}

// FeatureDesiredProperties addresses a feature's desired properties.
func (e *Event) FeatureDesiredProperties(featureID string) *Event {
	return e.WithPath(FeatureDesiredPropertiesPath(featureID))
}

// FeatureDesiredProperty addresses one desired property.
func (e *Event) FeatureDesiredProperty(featureID, p string) *Event {
	return e.WithPath(FeatureDesiredPropertyPath(featureID, p))
}

// Live marks the event as coming from the device.
func (e *Event) Live() *Event {
	e.topic.Channel = protocol.ChannelLive
	return e
}

// Twin marks the event as coming from the digital twin.
func (e *Event) Twin() *Event {
	e.topic.Channel = protocol.ChannelTwin
	return e
}

// Envelope builds the event envelope with headers from opts.
func (e *Event) Envelope(opts ...protocol.HeaderOption) *protocol.Envelope {
	return build(e.topic, e.path, e.payload, opts)
}
