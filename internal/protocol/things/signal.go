package things

import (
	"fmt"

	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// Resource paths within a thing.
const (
	PathThing           = "/"
	PathThingDefinition = "/definition"
	PathThingPolicyID   = "/policyId"
	PathThingFeatures   = "/features"
	PathThingAttributes = "/attributes"
)

// Message mailboxes.
const (
	MailboxInbox  = "inbox"
	MailboxOutbox = "outbox"
)

// AttributePath returns the path of one attribute. p may itself be a
// slash separated pointer into a nested attribute.
func AttributePath(p string) string {
	return PathThingAttributes + "/" + p
}

// FeaturePath returns the path of a feature.
func FeaturePath(featureID string) string {
	return PathThingFeatures + "/" + featureID
}

// FeatureDefinitionPath returns the path of a feature's definition.
func FeatureDefinitionPath(featureID string) string {
	return FeaturePath(featureID) + "/definition"
}

// FeaturePropertiesPath returns the path of a feature's properties.
func FeaturePropertiesPath(featureID string) string {
	return FeaturePath(featureID) + "/properties"
}

// FeaturePropertyPath returns the path of one feature property.
func FeaturePropertyPath(featureID, p string) string {
	return FeaturePropertiesPath(featureID) + "/" + p
}

// FeatureDesiredPropertiesPath returns the path of a feature's desired properties.
func FeatureDesiredPropertiesPath(featureID string) string {
	return FeaturePath(featureID) + "/desiredProperties"
}

// FeatureDesiredPropertyPath returns the path of one desired property.
func FeatureDesiredPropertyPath(featureID, p string) string {
	return FeatureDesiredPropertiesPath(featureID) + "/" + p
}

// MessagePath returns the path of a live message. address is empty for
// the thing itself or a FeaturePath.
func MessagePath(address, mailbox, subject string) string {
	return fmt.Sprintf("%s/%s/messages/%s", address, mailbox, subject)
}

// Signal is anything that produces a Ditto envelope.
type Signal interface {
	Envelope(opts ...protocol.HeaderOption) *protocol.Envelope
}

// defaultTopic addresses thingID in the things group.
func defaultTopic(thingID model.NamespacedID, channel protocol.Channel, criterion protocol.Criterion) protocol.Topic {
	return protocol.Topic{
		Namespace: thingID.Namespace,
		EntityID:  thingID.Name,
		Group:     protocol.GroupThings,
		Channel:   channel,
		Criterion: criterion,
	}
}

// signal is the state shared by commands and events.
type signal struct {
	topic   protocol.Topic
	path    string
	payload any
}

// build assembles the envelope. The topic is copied and a WireEncodable
// payload is converted to its wire form.
func build(topic protocol.Topic, path string, payload any, opts []protocol.HeaderOption) *protocol.Envelope {
	env := protocol.NewEnvelope(topic).
		WithHeaders(protocol.NewHeaders(opts...)).
		WithPath(path)
	if v := protocol.WireValue(payload); v != nil {
		env.WithValue(v)
	}
	return env
}
