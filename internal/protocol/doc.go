// Package protocol implements the Ditto protocol envelope and its
// addressing model.
//
// This package manages:
//   - Topic: the structured "namespace/entity/group[/channel]/criterion[/action]"
//     address of every message
//   - Headers: well-known typed headers over an open string-keyed map
//   - Envelope: topic + headers + path + value and optional metadata,
//     with strict omit-if-absent encoding and lenient decoding
//
// # Wire form
//
// Every type converts to a map[string]any (ToWireForm) that encoding/json
// turns into Ditto JSON. Decoding runs bottom-up over the JSON tree
// (DecodeWithHook); an object is only turned into an Envelope when it
// carries a "topic" key, anything else passes through unchanged.
//
// # Usage
//
//	env, err := protocol.DecodeEnvelope(payload)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(env.Topic.Action, *env.Path)
//
//	data, err := json.Marshal(env)
//
// # Thread Safety
//
// Topic is a value type. Headers and Envelope are not safe for concurrent
// mutation; use Envelope.Clone to hand a private copy to another goroutine.
package protocol
