package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// noneLiteral is treated as an absent string value when compacting a
// wire form; older producers serialised unset fields as "None".
const noneLiteral = "None"

// sharesKey reports whether d contains at least one of keys.
func sharesKey(d map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := d[k]; ok {
			return true
		}
	}
	return false
}

// copyMap returns a shallow copy of m, or an empty map if m is nil.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// asObject converts a decoded JSON value to a JSON object.
func asObject(key string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q must be a JSON object, got %T", key, v)
	}
	return m, nil
}

// asString converts a decoded JSON value to a string.
func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a JSON string, got %T", key, v)
	}
	return s, nil
}

// asInt64 converts a decoded JSON number to int64.
func asInt64(key string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%q must be an integer, got %v", key, n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("%q must be a JSON number, got %T", key, v)
	}
}

// decodeObject unmarshals a JSON object into a map.
func decodeObject(data []byte) (map[string]any, error) {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}
