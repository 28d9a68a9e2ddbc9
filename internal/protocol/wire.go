package protocol

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// WireEncodable is implemented by payload types that have a Ditto JSON
// representation, such as model.Thing and model.Feature.
type WireEncodable interface {
	ToWireForm() map[string]any
}

// WireValue returns the wire form of v if v implements WireEncodable and
// v itself otherwise. A nil pointer yields nil.
func WireValue(v any) any {
	enc, ok := v.(WireEncodable)
	if !ok {
		return v
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return enc.ToWireForm()
}

// ObjectHook is called for every JSON object met while decoding, children
// before parents. Its result replaces the object in the decoded tree.
// Returning the object unchanged leaves it as a plain map.
type ObjectHook func(obj map[string]any) (any, error)

// DecodeWithHook decodes JSON data and runs hook bottom-up over every
// object in it.
func DecodeWithHook(data []byte, hook ObjectHook) (any, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return applyHook(root, hook)
}

func applyHook(v any, hook ObjectHook) (any, error) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			decoded, err := applyHook(child, hook)
			if err != nil {
				return nil, err
			}
			node[k] = decoded
		}
		return hook(node)
	case []any:
		for i, child := range node {
			decoded, err := applyHook(child, hook)
			if err != nil {
				return nil, err
			}
			node[i] = decoded
		}
		return node, nil
	default:
		return v, nil
	}
}

// deepCopy copies the JSON-shaped containers in v. Leaves and unknown
// types are shared.
func deepCopy(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = deepCopy(child)
		}
		return out
	case []string:
		out := make([]string, len(node))
		copy(out, node)
		return out
	case *Envelope:
		return node.Clone()
	default:
		return v
	}
}

// toInt64 converts a decoded JSON number to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
