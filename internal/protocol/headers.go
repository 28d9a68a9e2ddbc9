package protocol

import (
	"encoding/json"
	"fmt"
)

// Well-known Ditto header keys.
const (
	HeaderContentType      = "content-type"
	HeaderCorrelationID    = "correlation-id"
	HeaderDittoOriginator  = "ditto-originator"
	HeaderIfMatch          = "If-Match"
	HeaderIfNoneMatch      = "If-None-Match"
	HeaderResponseRequired = "response-required"
	HeaderRequestedAcks    = "requested-acks"
	HeaderDittoWeakAck     = "ditto-weak-ack"
	HeaderTimeout          = "timeout"
	HeaderVersion          = "version"
	HeaderPutMetadata      = "put-metadata"
)

// Headers is the header map of an envelope. Well-known keys have typed
// accessors; any other key is kept verbatim.
//
// A key holding nil is treated as absent when encoding.
type Headers struct {
	values map[string]any
}

// HeaderOption sets a header while building an envelope.
type HeaderOption func(h *Headers)

// NewHeaders returns headers with opts applied.
func NewHeaders(opts ...HeaderOption) *Headers {
	h := &Headers{values: make(map[string]any)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ContentType sets the content-type header unless ct is empty.
func ContentType(ct string) HeaderOption {
	return func(h *Headers) {
		if ct != "" {
			h.WithContentType(ct)
		}
	}
}

// CorrelationID sets the correlation-id header unless id is empty.
func CorrelationID(id string) HeaderOption {
	return func(h *Headers) {
		if id != "" {
			h.WithCorrelationID(id)
		}
	}
}

// DittoOriginator sets the ditto-originator header unless it is empty.
func DittoOriginator(originator string) HeaderOption {
	return func(h *Headers) {
		if originator != "" {
			h.WithDittoOriginator(originator)
		}
	}
}

// IfMatch sets the If-Match header unless etag is empty.
func IfMatch(etag string) HeaderOption {
	return func(h *Headers) {
		if etag != "" {
			h.WithIfMatch(etag)
		}
	}
}

// IfNoneMatch sets the If-None-Match header unless etag is empty.
func IfNoneMatch(etag string) HeaderOption {
	return func(h *Headers) {
		if etag != "" {
			h.WithIfNoneMatch(etag)
		}
	}
}

// ResponseRequired sets the response-required header.
func ResponseRequired(required bool) HeaderOption {
	return func(h *Headers) { h.WithResponseRequired(required) }
}

// RequestedAcks sets the requested-acks header unless acks is empty.
func RequestedAcks(acks ...string) HeaderOption {
	return func(h *Headers) {
		if len(acks) > 0 {
			h.WithRequestedAcks(acks...)
		}
	}
}

// DittoWeakAck sets the ditto-weak-ack header.
func DittoWeakAck(weak bool) HeaderOption {
	return func(h *Headers) { h.WithDittoWeakAck(weak) }
}

// Timeout sets the timeout header unless it is empty.
func Timeout(timeout string) HeaderOption {
	return func(h *Headers) {
		if timeout != "" {
			h.WithTimeout(timeout)
		}
	}
}

// Version sets the protocol schema version header.
func Version(version int) HeaderOption {
	return func(h *Headers) { h.WithVersion(version) }
}

// PutMetadata sets the put-metadata header unless items is empty.
func PutMetadata(items ...any) HeaderOption {
	return func(h *Headers) {
		if len(items) > 0 {
			h.WithPutMetadata(items...)
		}
	}
}

// Custom sets an arbitrary header.
func Custom(key string, value any) HeaderOption {
	return func(h *Headers) { h.WithCustom(key, value) }
}

func (h *Headers) set(key string, value any) *Headers {
	if h.values == nil {
		h.values = make(map[string]any)
	}
	h.values[key] = value
	return h
}

func (h *Headers) str(key string) (string, bool) {
	s, ok := h.values[key].(string)
	return s, ok
}

func (h *Headers) boolean(key string) (bool, bool) {
	b, ok := h.values[key].(bool)
	return b, ok
}

// WithContentType sets the content-type header.
func (h *Headers) WithContentType(ct string) *Headers { return h.set(HeaderContentType, ct) }

// ContentType returns the content-type header.
func (h *Headers) ContentType() (string, bool) { return h.str(HeaderContentType) }

// WithCorrelationID sets the correlation-id header.
func (h *Headers) WithCorrelationID(id string) *Headers { return h.set(HeaderCorrelationID, id) }

// CorrelationID returns the correlation-id header.
func (h *Headers) CorrelationID() (string, bool) { return h.str(HeaderCorrelationID) }

// WithDittoOriginator sets the ditto-originator header.
func (h *Headers) WithDittoOriginator(originator string) *Headers {
	return h.set(HeaderDittoOriginator, originator)
}

// DittoOriginator returns the ditto-originator header.
func (h *Headers) DittoOriginator() (string, bool) { return h.str(HeaderDittoOriginator) }

// WithIfMatch sets the If-Match header.
func (h *Headers) WithIfMatch(etag string) *Headers { return h.set(HeaderIfMatch, etag) }

// IfMatch returns the If-Match header.
func (h *Headers) IfMatch() (string, bool) { return h.str(HeaderIfMatch) }

// WithIfNoneMatch sets the If-None-Match header.
func (h *Headers) WithIfNoneMatch(etag string) *Headers { return h.set(HeaderIfNoneMatch, etag) }

// IfNoneMatch returns the If-None-Match header.
func (h *Headers) IfNoneMatch() (string, bool) { return h.str(HeaderIfNoneMatch) }

// WithResponseRequired sets the response-required header.
func (h *Headers) WithResponseRequired(required bool) *Headers {
	return h.set(HeaderResponseRequired, required)
}

// ResponseRequired returns the response-required header.
func (h *Headers) ResponseRequired() (bool, bool) { return h.boolean(HeaderResponseRequired) }

// WithRequestedAcks sets the requested-acks header. No arguments store an empty list.
func (h *Headers) WithRequestedAcks(acks ...string) *Headers {
	return h.set(HeaderRequestedAcks, append([]string{}, acks...))
}

// RequestedAcks returns the requested-acks header.
func (h *Headers) RequestedAcks() ([]string, bool) {
	switch acks := h.values[HeaderRequestedAcks].(type) {
	case []string:
		return append([]string{}, acks...), true
	case []any:
		out := make([]string, 0, len(acks))
		for _, a := range acks {
			s, ok := a.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// WithDittoWeakAck sets the ditto-weak-ack header.
func (h *Headers) WithDittoWeakAck(weak bool) *Headers { return h.set(HeaderDittoWeakAck, weak) }

// DittoWeakAck returns the ditto-weak-ack header.
func (h *Headers) DittoWeakAck() (bool, bool) { return h.boolean(HeaderDittoWeakAck) }

// WithTimeout sets the timeout header, e.g. "10s" or "0".
func (h *Headers) WithTimeout(timeout string) *Headers { return h.set(HeaderTimeout, timeout) }

// Timeout returns the timeout header.
func (h *Headers) Timeout() (string, bool) { return h.str(HeaderTimeout) }

// WithVersion sets the protocol schema version header.
func (h *Headers) WithVersion(version int) *Headers { return h.set(HeaderVersion, version) }

// Version returns the protocol schema version header.
func (h *Headers) Version() (int, bool) {
	v, ok := toInt64(h.values[HeaderVersion])
	return int(v), ok
}

// WithPutMetadata sets the put-metadata header.
func (h *Headers) WithPutMetadata(items ...any) *Headers {
	return h.set(HeaderPutMetadata, append([]any{}, items...))
}

// PutMetadata returns the put-metadata header.
func (h *Headers) PutMetadata() ([]any, bool) {
	items, ok := h.values[HeaderPutMetadata].([]any)
	return items, ok
}

// WithCustom sets an arbitrary header.
func (h *Headers) WithCustom(key string, value any) *Headers { return h.set(key, value) }

// Get returns the raw value stored under key.
func (h *Headers) Get(key string) (any, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Has reports whether key holds a non-nil value.
func (h *Headers) Has(key string) bool {
	return h.values[key] != nil
}

// Delete removes key.
func (h *Headers) Delete(key string) *Headers {
	delete(h.values, key)
	return h
}

// Len returns the number of headers holding a non-nil value.
func (h *Headers) Len() int {
	n := 0
	for _, v := range h.values {
		if v != nil {
			n++
		}
	}
	return n
}

// ToWireForm returns a copy of the headers without keys holding nil.
// False, zero and empty-list values are kept.
func (h *Headers) ToWireForm() map[string]any {
	d := make(map[string]any, len(h.values))
	for k, v := range h.values {
		if v != nil {
			d[k] = deepCopy(v)
		}
	}
	return d
}

// FromWireForm replaces all headers with a copy of d. Keys are not validated.
func (h *Headers) FromWireForm(d map[string]any) *Headers {
	values := make(map[string]any, len(d))
	for k, v := range d {
		values[k] = deepCopy(v)
	}
	h.values = values
	return h
}

// Clone returns an independent copy of h.
func (h *Headers) Clone() *Headers {
	return new(Headers).FromWireForm(h.values)
}

// MarshalJSON encodes the headers' wire form.
func (h *Headers) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.ToWireForm())
}

// UnmarshalJSON replaces the headers with a decoded JSON object.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: headers: %w", ErrInvalidPayload, err)
	}
	h.FromWireForm(d)
	return nil
}
