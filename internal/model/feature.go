package model

import (
	"encoding/json"
	"fmt"
)

// Feature JSON keys.
const (
	featureKeyDefinition        = "definition"
	featureKeyProperties        = "properties"
	featureKeyDesiredProperties = "desiredProperties"
)

var featureKeys = []string{
	featureKeyDefinition,
	featureKeyProperties,
	featureKeyDesiredProperties,
}

// Feature is a named sub-component of a Thing.
//
// Properties and DesiredProperties are never nil on a Feature built by
// NewFeature or decoded from the wire; empty maps are omitted from the
// wire form.
type Feature struct {
	Definition        []DefinitionID
	Properties        map[string]any
	DesiredProperties map[string]any
}

// NewFeature returns an empty feature.
func NewFeature() *Feature {
	return &Feature{
		Properties:        make(map[string]any),
		DesiredProperties: make(map[string]any),
	}
}

// WithDefinition replaces the feature's definitions.
func (f *Feature) WithDefinition(ids ...DefinitionID) *Feature {
	f.Definition = append([]DefinitionID(nil), ids...)
	return f
}

// WithProperties merges props into the feature's properties.
func (f *Feature) WithProperties(props map[string]any) *Feature {
	f.ensureMaps()
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// WithProperty sets a single property.
func (f *Feature) WithProperty(id string, value any) *Feature {
	f.ensureMaps()
	f.Properties[id] = value
	return f
}

// WithDesiredProperties merges props into the feature's desired properties.
func (f *Feature) WithDesiredProperties(props map[string]any) *Feature {
	f.ensureMaps()
	for k, v := range props {
		f.DesiredProperties[k] = v
	}
	return f
}

// WithDesiredProperty sets a single desired property.
func (f *Feature) WithDesiredProperty(id string, value any) *Feature {
	f.ensureMaps()
	f.DesiredProperties[id] = value
	return f
}

func (f *Feature) ensureMaps() {
	if f.Properties == nil {
		f.Properties = make(map[string]any)
	}
	if f.DesiredProperties == nil {
		f.DesiredProperties = make(map[string]any)
	}
}

// ToWireForm returns the Ditto JSON object for the feature. Empty
// definition, properties and desired properties are left out.
func (f *Feature) ToWireForm() map[string]any {
	d := make(map[string]any, len(featureKeys))
	if len(f.Definition) > 0 {
		defs := make([]string, len(f.Definition))
		for i, id := range f.Definition {
			defs[i] = id.String()
		}
		d[featureKeyDefinition] = defs
	}
	if len(f.Properties) > 0 {
		d[featureKeyProperties] = copyMap(f.Properties)
	}
	if len(f.DesiredProperties) > 0 {
		d[featureKeyDesiredProperties] = copyMap(f.DesiredProperties)
	}
	return d
}

// FromWireForm fills f from a decoded Ditto JSON object.
//
// If d shares no key with the feature representation, d is returned
// unchanged and f is left as it was. Otherwise f is returned. On error f
// is left unchanged.
func (f *Feature) FromWireForm(d map[string]any) (any, error) {
	if !sharesKey(d, featureKeys) {
		return d, nil
	}

	decoded := f.clone()
	if err := decoded.fill(d); err != nil {
		return nil, err
	}
	*f = *decoded
	return f, nil
}

// clone copies f with its own property maps.
func (f *Feature) clone() *Feature {
	return &Feature{
		Definition:        append([]DefinitionID(nil), f.Definition...),
		Properties:        copyMap(f.Properties),
		DesiredProperties: copyMap(f.DesiredProperties),
	}
}

func (f *Feature) fill(d map[string]any) error {
	f.ensureMaps()

	if raw, ok := d[featureKeyDefinition]; ok {
		list, isList := raw.([]any)
		if !isList {
			return fmt.Errorf("%w: %q must be a JSON array, got %T", ErrMalformedIdentifier, featureKeyDefinition, raw)
		}
		defs := make([]DefinitionID, 0, len(list))
		for _, item := range list {
			s, err := asString(featureKeyDefinition, item)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
			}
			id, err := ParseDefinitionID(s)
			if err != nil {
				return err
			}
			defs = append(defs, id)
		}
		f.Definition = defs
	}
	if raw, ok := d[featureKeyProperties]; ok {
		props, err := asObject(featureKeyProperties, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotFeature, err)
		}
		f.WithProperties(props)
	}
	if raw, ok := d[featureKeyDesiredProperties]; ok {
		props, err := asObject(featureKeyDesiredProperties, raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotFeature, err)
		}
		f.WithDesiredProperties(props)
	}
	return nil
}

// DecodeFeature builds a Feature from a decoded JSON value.
//
// Returns ErrNotFeature if v is not an object sharing a key with the
// feature representation.
func DecodeFeature(v any) (*Feature, error) {
	d, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotFeature, v)
	}
	res, err := NewFeature().FromWireForm(d)
	if err != nil {
		return nil, err
	}
	f, ok := res.(*Feature)
	if !ok {
		return nil, ErrNotFeature
	}
	return f, nil
}

// MarshalJSON encodes the feature's wire form.
func (f *Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToWireForm())
}

// UnmarshalJSON decodes a feature. Objects that are not features leave f unchanged.
func (f *Feature) UnmarshalJSON(data []byte) error {
	d, err := decodeObject(data)
	if err != nil {
		return err
	}
	_, err = f.FromWireForm(d)
	return err
}
