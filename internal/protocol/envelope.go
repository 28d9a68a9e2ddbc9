package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope JSON keys.
const (
	envelopeKeyTopic     = "topic"
	envelopeKeyHeaders   = "headers"
	envelopeKeyPath      = "path"
	envelopeKeyValue     = "value"
	envelopeKeyFields    = "fields"
	envelopeKeyExtra     = "extra"
	envelopeKeyStatus    = "status"
	envelopeKeyRevision  = "revision"
	envelopeKeyTimestamp = "timestamp"
)

// Envelope is the Ditto protocol message.
//
// Topic is always encoded. Every other field is encoded only when set:
// nil pointers and nil Value/Extra are left out of the wire form.
type Envelope struct {
	Topic     Topic
	Headers   *Headers
	Path      *string
	Value     any
	Fields    *string
	Extra     any
	Status    *int
	Revision  *int64
	Timestamp *string
}

// NewEnvelope returns an envelope for topic with empty headers.
func NewEnvelope(topic Topic) *Envelope {
	return &Envelope{Topic: topic, Headers: NewHeaders()}
}

// WithTopic sets the topic.
func (e *Envelope) WithTopic(topic Topic) *Envelope {
	e.Topic = topic
	return e
}

// WithHeaders replaces the headers. A nil h drops headers from the wire form.
func (e *Envelope) WithHeaders(h *Headers) *Envelope {
	e.Headers = h
	return e
}

// WithPath sets the resource path the envelope refers to.
func (e *Envelope) WithPath(path string) *Envelope {
	e.Path = &path
	return e
}

// WithValue sets the value. WireEncodable values are converted when encoding.
func (e *Envelope) WithValue(value any) *Envelope {
	e.Value = value
	return e
}

// WithFields sets the field selector.
func (e *Envelope) WithFields(fields string) *Envelope {
	e.Fields = &fields
	return e
}

// WithExtra sets the enriched extra fields.
func (e *Envelope) WithExtra(extra any) *Envelope {
	e.Extra = extra
	return e
}

// WithStatus sets the response status code.
func (e *Envelope) WithStatus(status int) *Envelope {
	e.Status = &status
	return e
}

// WithRevision sets the entity revision.
func (e *Envelope) WithRevision(revision int64) *Envelope {
	e.Revision = &revision
	return e
}

// WithTimestamp sets the event timestamp.
func (e *Envelope) WithTimestamp(timestamp string) *Envelope {
	e.Timestamp = &timestamp
	return e
}

// ToWireForm returns the Ditto JSON object for the envelope.
func (e *Envelope) ToWireForm() map[string]any {
	d := map[string]any{
		envelopeKeyTopic: e.Topic.String(),
	}
	if e.Headers != nil {
		d[envelopeKeyHeaders] = e.Headers.ToWireForm()
	}
	if e.Path != nil {
		d[envelopeKeyPath] = *e.Path
	}
	if v := WireValue(e.Value); v != nil {
		d[envelopeKeyValue] = v
	}
	if e.Fields != nil {
		d[envelopeKeyFields] = *e.Fields
	}
	if v := WireValue(e.Extra); v != nil {
		d[envelopeKeyExtra] = v
	}
	if e.Status != nil {
		d[envelopeKeyStatus] = *e.Status
	}
	if e.Revision != nil {
		d[envelopeKeyRevision] = *e.Revision
	}
	if e.Timestamp != nil {
		d[envelopeKeyTimestamp] = *e.Timestamp
	}
	return d
}

// FromWireForm fills e from a decoded Ditto JSON object.
//
// An object without a "topic" key is not an envelope: d is returned
// unchanged and e is left as it was. Otherwise e is returned, with empty
// headers if d has none.
func (e *Envelope) FromWireForm(d map[string]any) (any, error) {
	rawTopic, ok := d[envelopeKeyTopic]
	if !ok {
		return d, nil
	}

	topicString, ok := rawTopic.(string)
	if !ok {
		return nil, fmt.Errorf("%w: topic must be a string, got %T", ErrMalformedTopic, rawTopic)
	}
	topic, err := ParseTopic(topicString)
	if err != nil {
		return nil, err
	}

	decoded := Envelope{Topic: topic, Headers: NewHeaders()}
	if raw, ok := d[envelopeKeyHeaders]; ok && raw != nil {
		h, isObject := raw.(map[string]any)
		if !isObject {
			return nil, fmt.Errorf("%w: headers must be an object, got %T", ErrInvalidPayload, raw)
		}
		decoded.Headers.FromWireForm(h)
	}
	if decoded.Path, err = optionalString(d, envelopeKeyPath); err != nil {
		return nil, err
	}
	if decoded.Fields, err = optionalString(d, envelopeKeyFields); err != nil {
		return nil, err
	}
	if decoded.Timestamp, err = optionalString(d, envelopeKeyTimestamp); err != nil {
		return nil, err
	}
	if raw, ok := d[envelopeKeyStatus]; ok && raw != nil {
		status, isInt := toInt64(raw)
		if !isInt {
			return nil, fmt.Errorf("%w: status must be an integer, got %v", ErrInvalidPayload, raw)
		}
		s := int(status)
		decoded.Status = &s
	}
	if raw, ok := d[envelopeKeyRevision]; ok && raw != nil {
		revision, isInt := toInt64(raw)
		if !isInt {
			return nil, fmt.Errorf("%w: revision must be an integer, got %v", ErrInvalidPayload, raw)
		}
		decoded.Revision = &revision
	}
	decoded.Value = d[envelopeKeyValue]
	decoded.Extra = d[envelopeKeyExtra]

	*e = decoded
	return e, nil
}

func optionalString(d map[string]any, key string) (*string, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, isString := raw.(string)
	if !isString {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidPayload, key, raw)
	}
	return &s, nil
}

// envelopeHook turns every object carrying a well-formed topic into an
// Envelope. Objects whose topic does not parse are left as they are.
func envelopeHook(obj map[string]any) (any, error) {
	res, err := new(Envelope).FromWireForm(obj)
	if err != nil {
		if errors.Is(err, ErrMalformedTopic) || errors.Is(err, ErrInvalidPayload) {
			return obj, nil
		}
		return nil, err
	}
	return res, nil
}

// DecodeEnvelope decodes a JSON payload into an Envelope.
//
// Every nested object is passed through the envelope decoder as well, so
// an envelope carried inside a value comes back as an *Envelope.
//
// Returns ErrInvalidPayload for malformed JSON, ErrMalformedTopic for an
// unparseable top-level topic and ErrNotEnvelope when the top-level value
// has no topic.
func DecodeEnvelope(payload []byte) (*Envelope, error) {
	root, err := DecodeWithHook(payload, envelopeHook)
	if err != nil {
		return nil, err
	}

	switch v := root.(type) {
	case *Envelope:
		return v, nil
	case map[string]any:
		// Re-run strictly so the caller sees why the root was rejected.
		if _, err := new(Envelope).FromWireForm(v); err != nil {
			return nil, err
		}
		return nil, ErrNotEnvelope
	default:
		return nil, fmt.Errorf("%w: top-level JSON is %T", ErrNotEnvelope, root)
	}
}

// Clone returns a deep copy of e. The clone shares no maps or slices with e.
func (e *Envelope) Clone() *Envelope {
	c := *e
	if e.Headers != nil {
		c.Headers = e.Headers.Clone()
	}
	c.Path = clonePtr(e.Path)
	c.Fields = clonePtr(e.Fields)
	c.Timestamp = clonePtr(e.Timestamp)
	c.Status = clonePtr(e.Status)
	c.Revision = clonePtr(e.Revision)
	c.Value = deepCopy(e.Value)
	c.Extra = deepCopy(e.Extra)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MarshalJSON encodes the envelope's wire form.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToWireForm())
}

// UnmarshalJSON decodes an envelope. Nested objects are left as plain JSON values.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	res, err := e.FromWireForm(d)
	if err != nil {
		return err
	}
	if _, ok := res.(*Envelope); !ok {
		return ErrNotEnvelope
	}
	return nil
}
