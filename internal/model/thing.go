package model

import (
	"encoding/json"
	"fmt"
)

// Thing JSON keys.
const (
	thingKeyThingID    = "thingId"
	thingKeyPolicyID   = "policyId"
	thingKeyDefinition = "definition"
	thingKeyAttributes = "attributes"
	thingKeyFeatures   = "features"
	thingKeyNamespace  = "_namespace"
	thingKeyRevision   = "_revision"
	thingKeyCreated    = "_created"
	thingKeyModified   = "_modified"
	thingKeyMetadata   = "_metadata"
)

var thingKeys = []string{
	thingKeyThingID,
	thingKeyPolicyID,
	thingKeyDefinition,
	thingKeyAttributes,
	thingKeyFeatures,
	thingKeyNamespace,
	thingKeyRevision,
	thingKeyCreated,
	thingKeyModified,
	thingKeyMetadata,
}

// Thing is the digital-twin root entity.
//
// Namespace is derived from the thing id by NewThingWithID only. Setting
// the id later through WithID does not update it.
type Thing struct {
	ThingID    *NamespacedID
	PolicyID   *NamespacedID
	Definition *DefinitionID
	Attributes map[string]any
	Features   map[string]*Feature

	// Metadata fields, prefixed with '_' on the wire.
	Namespace string
	Revision  *int64
	Created   string
	Modified  string
	Metadata  any
}

// NewThing returns an empty thing.
func NewThing() *Thing {
	return &Thing{
		Attributes: make(map[string]any),
		Features:   make(map[string]*Feature),
	}
}

// NewThingWithID returns a thing with the given id whose Namespace is
// taken from the id.
func NewThingWithID(id NamespacedID) *Thing {
	t := NewThing()
	t.ThingID = &id
	t.Namespace = id.Namespace
	return t
}

// WithID sets the thing id. Namespace is left untouched.
func (t *Thing) WithID(id NamespacedID) *Thing {
	t.ThingID = &id
	return t
}

// WithPolicyID sets the policy id.
func (t *Thing) WithPolicyID(id NamespacedID) *Thing {
	t.PolicyID = &id
	return t
}

// WithDefinition sets the thing's model definition.
func (t *Thing) WithDefinition(id DefinitionID) *Thing {
	t.Definition = &id
	return t
}

// WithAttributes merges attrs into the thing's attributes.
func (t *Thing) WithAttributes(attrs map[string]any) *Thing {
	t.ensureMaps()
	for k, v := range attrs {
		t.Attributes[k] = v
	}
	return t
}

// WithAttribute sets a single attribute.
func (t *Thing) WithAttribute(id string, value any) *Thing {
	t.ensureMaps()
	t.Attributes[id] = value
	return t
}

// WithFeatures merges features into the thing's features.
func (t *Thing) WithFeatures(features map[string]*Feature) *Thing {
	t.ensureMaps()
	for k, f := range features {
		t.Features[k] = f
	}
	return t
}

// WithFeature sets a single feature.
func (t *Thing) WithFeature(id string, f *Feature) *Thing {
	t.ensureMaps()
	t.Features[id] = f
	return t
}

func (t *Thing) ensureMaps() {
	if t.Attributes == nil {
		t.Attributes = make(map[string]any)
	}
	if t.Features == nil {
		t.Features = make(map[string]*Feature)
	}
}

// ToWireForm returns the Ditto JSON object for the thing.
//
// Identifiers appear in their string form. Absent values, the "None"
// literal and empty objects are left out.
func (t *Thing) ToWireForm() map[string]any {
	d := make(map[string]any, len(thingKeys))
	if t.ThingID != nil {
		d[thingKeyThingID] = t.ThingID.String()
	}
	if t.PolicyID != nil {
		d[thingKeyPolicyID] = t.PolicyID.String()
	}
	if t.Definition != nil {
		d[thingKeyDefinition] = t.Definition.String()
	}
	if len(t.Attributes) > 0 {
		d[thingKeyAttributes] = copyMap(t.Attributes)
	}
	if len(t.Features) > 0 {
		features := make(map[string]any, len(t.Features))
		for id, f := range t.Features {
			if f == nil {
				f = NewFeature()
			}
			features[id] = f.ToWireForm()
		}
		d[thingKeyFeatures] = features
	}
	putString(d, thingKeyNamespace, t.Namespace)
	putString(d, thingKeyCreated, t.Created)
	putString(d, thingKeyModified, t.Modified)
	if t.Revision != nil {
		d[thingKeyRevision] = *t.Revision
	}
	if t.Metadata != nil {
		if m, ok := t.Metadata.(map[string]any); !ok || len(m) > 0 {
			d[thingKeyMetadata] = t.Metadata
		}
	}
	return d
}

func putString(d map[string]any, key, value string) {
	if value != "" && value != noneLiteral {
		d[key] = value
	}
}

// FromWireForm fills t from a decoded Ditto JSON object.
//
// If d shares no key with the thing representation, d is returned
// unchanged and t is left as it was. Otherwise t is returned. Identifier
// strings that do not parse yield ErrMalformedIdentifier. On error t is
// left unchanged.
func (t *Thing) FromWireForm(d map[string]any) (any, error) {
	if !sharesKey(d, thingKeys) {
		return d, nil
	}

	decoded := t.clone()
	if err := decoded.fill(d); err != nil {
		return nil, err
	}
	*t = *decoded
	return t, nil
}

// clone copies t with its own attribute and feature maps.
func (t *Thing) clone() *Thing {
	c := *t
	c.Attributes = copyMap(t.Attributes)
	c.Features = make(map[string]*Feature, len(t.Features))
	for id, f := range t.Features {
		c.Features[id] = f
	}
	return &c
}

func (t *Thing) fill(d map[string]any) error {
	t.ensureMaps()

	if raw, ok := d[thingKeyThingID]; ok {
		id, err := namespacedIDField(thingKeyThingID, raw)
		if err != nil {
			return err
		}
		t.WithID(id)
	}
	if raw, ok := d[thingKeyPolicyID]; ok {
		id, err := namespacedIDField(thingKeyPolicyID, raw)
		if err != nil {
			return err
		}
		t.WithPolicyID(id)
	}
	if raw, ok := d[thingKeyDefinition]; ok {
		s, err := asString(thingKeyDefinition, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
		}
		id, err := ParseDefinitionID(s)
		if err != nil {
			return err
		}
		t.WithDefinition(id)
	}
	if raw, ok := d[thingKeyAttributes]; ok {
		attrs, err := asObject(thingKeyAttributes, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotThing, err)
		}
		t.WithAttributes(attrs)
	}
	if raw, ok := d[thingKeyRevision]; ok {
		rev, err := asInt64(thingKeyRevision, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotThing, err)
		}
		t.Revision = &rev
	}
	if err := stringField(d, thingKeyNamespace, &t.Namespace); err != nil {
		return err
	}
	if err := stringField(d, thingKeyCreated, &t.Created); err != nil {
		return err
	}
	if err := stringField(d, thingKeyModified, &t.Modified); err != nil {
		return err
	}
	if raw, ok := d[thingKeyMetadata]; ok {
		t.Metadata = raw
	}
	if raw, ok := d[thingKeyFeatures]; ok {
		features, err := asObject(thingKeyFeatures, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotThing, err)
		}
		for id, rawFeature := range features {
			f, err := featureField(id, rawFeature)
			if err != nil {
				return err
			}
			t.WithFeature(id, f)
		}
	}
	return nil
}

func namespacedIDField(key string, raw any) (NamespacedID, error) {
	s, err := asString(key, raw)
	if err != nil {
		return NamespacedID{}, fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
	}
	return ParseNamespacedID(s)
}

func stringField(d map[string]any, key string, dst *string) error {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil
	}
	s, err := asString(key, raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotThing, err)
	}
	*dst = s
	return nil
}

// featureField decodes one entry of a thing's "features" object. An
// empty object is a feature without content.
func featureField(id string, raw any) (*Feature, error) {
	obj, err := asObject("features/"+id, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFeature, err)
	}
	res, err := NewFeature().FromWireForm(obj)
	if err != nil {
		return nil, fmt.Errorf("feature %q: %w", id, err)
	}
	if f, ok := res.(*Feature); ok {
		return f, nil
	}
	return NewFeature(), nil
}

// DecodeThing builds a Thing from a decoded JSON value such as an
// envelope's value.
//
// Returns ErrNotThing if v is not an object sharing a key with the thing
// representation.
func DecodeThing(v any) (*Thing, error) {
	d, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotThing, v)
	}
	res, err := NewThing().FromWireForm(d)
	if err != nil {
		return nil, err
	}
	t, ok := res.(*Thing)
	if !ok {
		return nil, ErrNotThing
	}
	return t, nil
}

// MarshalJSON encodes the thing's wire form.
func (t *Thing) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToWireForm())
}

// UnmarshalJSON decodes a thing. Objects that are not things leave t unchanged.
func (t *Thing) UnmarshalJSON(data []byte) error {
	d, err := decodeObject(data)
	if err != nil {
		return err
	}
	_, err = t.FromWireForm(d)
	return err
}
