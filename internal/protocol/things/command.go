package things

import (
	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// thingIDsKey is the payload key of a multi-thing retrieve.
const thingIDsKey = "thingIds"

// Command builds a twin or live command for one thing.
//
// The zero path is PathThing and the channel defaults to twin.
type Command struct {
	signal
}

// NewCommand returns a twin command addressing the whole thing.
func NewCommand(thingID model.NamespacedID) *Command {
	return &Command{signal{
		topic: defaultTopic(thingID, protocol.ChannelTwin, protocol.CriterionCommands),
		path:  PathThing,
	}}
}

// WithTopic replaces the topic.
func (c *Command) WithTopic(topic protocol.Topic) *Command {
	c.topic = topic
	return c
}

// WithPath sets a raw resource path.
func (c *Command) WithPath(path string) *Command {
	c.path = path
	return c
}

// WithPayload sets the payload without changing the action.
func (c *Command) WithPayload(payload any) *Command {
	c.payload = payload
	return c
}

// Topic returns a copy of the current topic.
func (c *Command) Topic() protocol.Topic { return c.topic }

// Path returns the current resource path.
func (c *Command) Path() string { return c.path }

// Create makes the command create thing. The path is reset to the thing root.
func (c *Command) Create(thing *model.Thing) *Command {
	c.topic.Action = protocol.ActionCreate
	c.payload = thing
	c.path = PathThing
	return c
}

// Modify makes the command replace the addressed resource with payload.
func (c *Command) Modify(payload any) *Command {
	c.topic.Action = protocol.ActionModify
	c.payload = payload
	return c
}

// Retrieve makes the command read the addressed resource. With ids the
// payload lists the things to retrieve; without ids the payload is left
// as it was.
func (c *Command) Retrieve(ids ...model.NamespacedID) *Command {
	c.topic.Action = protocol.ActionRetrieve
	if len(ids) > 0 {
		thingIDs := make([]any, len(ids))
		for i, id := range ids {
			thingIDs[i] = id.String()
		}
		c.payload = map[string]any{thingIDsKey: thingIDs}
	}
	return c
}

// Delete makes the command delete the addressed resource.
func (c *Command) Delete() *Command {
	c.topic.Action = protocol.ActionDelete
	return c
}

// PolicyID addresses the thing's policy id.
func (c *Command) PolicyID() *Command { return c.WithPath(PathThingPolicyID) }

// Definition addresses the thing's definition.
func (c *Command) Definition() *Command { return c.WithPath(PathThingDefinition) }

// Attributes addresses all attributes.
func (c *Command) Attributes() *Command { return c.WithPath(PathThingAttributes) }

// Attribute addresses one attribute.
func (c *Command) Attribute(p string) *Command { return c.WithPath(AttributePath(p)) }

// Features addresses all features.
func (c *Command) Features() *Command { return c.WithPath(PathThingFeatures) }

// Feature addresses one feature.
func (c *Command) Feature(featureID string) *Command { return c.WithPath(FeaturePath(featureID)) }

// FeatureDefinition addresses a feature's definition.
func (c *Command) FeatureDefinition(featureID string) *Command {
	return c.WithPath(FeatureDefinitionPath(featureID))
}

// FeatureProperties addresses a feature's properties.
func (c *Command) FeatureProperties(featureID string) *Command {
	return c.WithPath(FeaturePropertiesPath(featureID))
}

// FeatureProperty addresses one feature property.
func (c *Command) FeatureProperty(featureID, p string) *Command {
	return c.WithPath(FeaturePropertyPath(featureID, p))
}

// FeatureDesiredProperties addresses a feature's desired properties.
func (c *Command) FeatureDesiredProperties(featureID string) *Command {
	return c.WithPath(FeatureDesiredPropertiesPath(featureID))
}

// FeatureDesiredProperty addresses one desired property.
func (c *Command) FeatureDesiredProperty(featureID, p string) *Command {
	return c.WithPath(FeatureDesiredPropertyPath(featureID, p))
}

// Live routes the command to the device.
func (c *Command) Live() *Command {
	c.topic.Channel = protocol.ChannelLive
	return c
}

// Twin routes the command to the digital twin.
func (c *Command) Twin() *Command {
	c.topic.Channel = protocol.ChannelTwin
	return c
}

// Envelope builds the command envelope with headers from opts.
func (c *Command) Envelope(opts ...protocol.HeaderOption) *protocol.Envelope {
	return build(c.topic, c.path, c.payload, opts)
}
