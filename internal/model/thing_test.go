package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const fullThingJSON = `{
	"thingId": "org.example.intern.dmp:lamp",
	"policyId": "org.example.intern.dmp:internship",
	"definition": "org.example.intern.dmp:lamp:1.0.0",
	"attributes": {"room": "kitchen", "house_number": 31},
	"features": {
		"lightbulb": {
			"properties": {"state": 1, "color": "white"},
			"desiredProperties": {"state": 1, "color": "black"}
		},
		"lightbulb_2": {
			"properties": {"color": "red"}
		}
	},
	"_revision": 29,
	"_modified": "2020-08-21T12:19:15.773119884Z"
}`

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var d map[string]any
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	return d
}

func TestDecodeThing_Full(t *testing.T) {
	thing, err := DecodeThing(decodeJSON(t, fullThingJSON))
	if err != nil {
		t.Fatalf("DecodeThing() error = %v", err)
	}

	if got := thing.ThingID.String(); got != "org.example.intern.dmp:lamp" {
		t.Errorf("ThingID = %q", got)
	}
	if got := thing.PolicyID.String(); got != "org.example.intern.dmp:internship" {
		t.Errorf("PolicyID = %q", got)
	}
	if got := thing.Definition.String(); got != "org.example.intern.dmp:lamp:1.0.0" {
		t.Errorf("Definition = %q", got)
	}
	if thing.Attributes["room"] != "kitchen" {
		t.Errorf("Attributes[room] = %v, want kitchen", thing.Attributes["room"])
	}
	if thing.Attributes["house_number"] != float64(31) {
		t.Errorf("Attributes[house_number] = %v, want 31", thing.Attributes["house_number"])
	}
	if thing.Revision == nil || *thing.Revision != 29 {
		t.Errorf("Revision = %v, want 29", thing.Revision)
	}
	if thing.Modified != "2020-08-21T12:19:15.773119884Z" {
		t.Errorf("Modified = %q", thing.Modified)
	}

	bulb := thing.Features["lightbulb"]
	if bulb == nil {
		t.Fatal("Features[lightbulb] = nil")
	}
	if bulb.Properties["color"] != "white" {
		t.Errorf("lightbulb color = %v, want white", bulb.Properties["color"])
	}
	if bulb.DesiredProperties["color"] != "black" {
		t.Errorf("lightbulb desired color = %v, want black", bulb.DesiredProperties["color"])
	}
	if thing.Features["lightbulb_2"].Properties["color"] != "red" {
		t.Errorf("lightbulb_2 color = %v, want red", thing.Features["lightbulb_2"].Properties["color"])
	}
}

func TestDecodeThing_OptionalSections(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAttrs    int
		wantFeatures int
	}{
		{
			name:         "no features",
			input:        `{"thingId": "a:b", "attributes": {"room": "kitchen"}, "_revision": 29}`,
			wantAttrs:    1,
			wantFeatures: 0,
		},
		{
			name:         "no attributes",
			input:        `{"thingId": "a:b", "features": {"lightbulb": {"properties": {"state": 1}}}}`,
			wantAttrs:    0,
			wantFeatures: 1,
		},
		{
			name:         "neither",
			input:        `{"thingId": "a:b", "policyId": "a:p", "_revision": 29}`,
			wantAttrs:    0,
			wantFeatures: 0,
		},
		{
			name:         "empty feature object",
			input:        `{"thingId": "a:b", "features": {"empty": {}}}`,
			wantAttrs:    0,
			wantFeatures: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thing, err := DecodeThing(decodeJSON(t, tt.input))
			if err != nil {
				t.Fatalf("DecodeThing() error = %v", err)
			}
			if len(thing.Attributes) != tt.wantAttrs {
				t.Errorf("len(Attributes) = %d, want %d", len(thing.Attributes), tt.wantAttrs)
			}
			if len(thing.Features) != tt.wantFeatures {
				t.Errorf("len(Features) = %d, want %d", len(thing.Features), tt.wantFeatures)
			}
		})
	}
}

func TestThing_FromWireForm_PassThrough(t *testing.T) {
	input := map[string]any{"unrelated": true}

	res, err := NewThing().FromWireForm(input)
	if err != nil {
		t.Fatalf("FromWireForm() error = %v", err)
	}
	got, ok := res.(map[string]any)
	if !ok {
		t.Fatalf("FromWireForm() returned %T, want the input map", res)
	}
	if diff := cmp.Diff(input, got); diff != "" {
		t.Errorf("FromWireForm() changed input (-want +got):\n%s", diff)
	}

	if _, err := DecodeThing(input); !errors.Is(err, ErrNotThing) {
		t.Errorf("DecodeThing() error = %v, want ErrNotThing", err)
	}
}

func TestThing_FromWireForm_MalformedID(t *testing.T) {
	_, err := DecodeThing(map[string]any{"thingId": "no-separator"})
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("DecodeThing() error = %v, want ErrMalformedIdentifier", err)
	}

	_, err = DecodeThing(map[string]any{"thingId": 42.0})
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("DecodeThing() error = %v, want ErrMalformedIdentifier", err)
	}
}

func TestThing_ToWireForm(t *testing.T) {
	thing := NewThing().
		WithID(MustParseNamespacedID("org.eclipse.ditto:fancy-thing_53")).
		WithPolicyID(MustParseNamespacedID("org.eclipse.ditto:the_policy_id")).
		WithDefinition(MustParseDefinitionID("org.eclipse.ditto:SomeModel:1.0.0")).
		WithAttribute("test-attr", map[string]any{"my-custom-attr": "attr"}).
		WithFeature("testFeature", NewFeature().
			WithProperties(map[string]any{"a": 2}).
			WithDesiredProperties(map[string]any{"a": 1}))

	want := map[string]any{
		"thingId":    "org.eclipse.ditto:fancy-thing_53",
		"policyId":   "org.eclipse.ditto:the_policy_id",
		"definition": "org.eclipse.ditto:SomeModel:1.0.0",
		"attributes": map[string]any{
			"test-attr": map[string]any{"my-custom-attr": "attr"},
		},
		"features": map[string]any{
			"testFeature": map[string]any{
				"properties":        map[string]any{"a": 2},
				"desiredProperties": map[string]any{"a": 1},
			},
		},
	}

	if diff := cmp.Diff(want, thing.ToWireForm()); diff != "" {
		t.Errorf("ToWireForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestThing_ToWireForm_Compaction(t *testing.T) {
	rev := int64(0)
	thing := NewThing()
	thing.Namespace = "None"
	thing.Created = "2021-01-01T00:00:00Z"
	thing.Revision = &rev
	thing.Metadata = map[string]any{}

	want := map[string]any{
		"_created":  "2021-01-01T00:00:00Z",
		"_revision": int64(0),
	}

	if diff := cmp.Diff(want, thing.ToWireForm()); diff != "" {
		t.Errorf("ToWireForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewThingWithID_DerivesNamespaceOnce(t *testing.T) {
	thing := NewThingWithID(NewNamespacedID("first.ns", "device"))
	if thing.Namespace != "first.ns" {
		t.Fatalf("Namespace = %q, want %q", thing.Namespace, "first.ns")
	}

	thing.WithID(NewNamespacedID("second.ns", "device"))
	if thing.Namespace != "first.ns" {
		t.Errorf("Namespace = %q after WithID, want it unchanged", thing.Namespace)
	}

	if got := thing.ToWireForm()["_namespace"]; got != "first.ns" {
		t.Errorf("_namespace = %v, want first.ns", got)
	}
}

func TestThing_JSONRoundTrip(t *testing.T) {
	var thing Thing
	if err := json.Unmarshal([]byte(fullThingJSON), &thing); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	data, err := json.Marshal(&thing)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	if diff := cmp.Diff(decodeJSON(t, fullThingJSON), decodeJSON(t, string(data))); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestThing_FromWireForm_ErrorLeavesThingUnchanged(t *testing.T) {
	thing := NewThingWithID(MustParseNamespacedID("org.example:lamp")).
		WithAttribute("room", "kitchen")
	before := thing.ToWireForm()

	_, err := thing.FromWireForm(map[string]any{
		"thingId":    "ns:a",
		"attributes": map[string]any{"x": 1.0},
		"features": map[string]any{
			"f": map[string]any{"definition": []any{"bad"}},
		},
	})
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Fatalf("FromWireForm() error = %v, want ErrMalformedIdentifier", err)
	}
	if diff := cmp.Diff(before, thing.ToWireForm()); diff != "" {
		t.Errorf("thing modified by failed decode (-want +got):\n%s", diff)
	}

	if err := thing.UnmarshalJSON([]byte(`{"thingId": "ns:b", "_revision": "x"}`)); !errors.Is(err, ErrNotThing) {
		t.Fatalf("UnmarshalJSON() error = %v, want ErrNotThing", err)
	}
	if got := thing.ThingID.String(); got != "org.example:lamp" {
		t.Errorf("ThingID = %q after failed unmarshal, want org.example:lamp", got)
	}
}
