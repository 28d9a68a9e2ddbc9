// Package model holds the Ditto things-domain payload types: the
// colon-delimited identifiers (NamespacedID, DefinitionID) and the
// Thing/Feature aggregates carried as envelope values.
//
// All aggregates convert to and from their wire form, the
// map[string]any shape produced by encoding/json for a Ditto JSON
// object. Conversion back from the wire form is lenient: input that
// shares no key with the aggregate's key set is not an error at the
// FromWireForm level, it is handed back unchanged so callers can walk
// arbitrarily shaped JSON.
//
// # Usage
//
//	thing := model.NewThing().
//	    WithID(model.MustParseNamespacedID("org.eclipse.ditto:lamp")).
//	    WithAttribute("room", "kitchen").
//	    WithFeature("lightbulb", model.NewFeature().WithProperty("on", true))
//
//	wire := thing.ToWireForm() // map[string]any ready for json.Marshal
package model
