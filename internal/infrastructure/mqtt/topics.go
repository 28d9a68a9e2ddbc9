package mqtt

import (
	"regexp"
	"strconv"
)

// Topic layout of the Hono MQTT adapter, as seen by a device.
//
// Requests arrive on command///req/{requestId}/{subject}. An empty
// request id marks a one-way command that expects no response.
// Responses go to command///res/{requestId}/{status}.
const (
	// TopicPrefixCommand is the base of all command topics.
	TopicPrefixCommand = "command"

	// TopicEvent is the topic for events sent by the device.
	TopicEvent = "e"

	// TopicTelemetry is the topic for telemetry sent by the device.
	TopicTelemetry = "t"
)

// commandRequestPattern matches an inbound request topic and captures the
// request id and subject.
var commandRequestPattern = regexp.MustCompile(`^command///req/([^/]*)/([^/]+)$`)

// Topics provides builders for the device-side Hono topics.
//
//	topics := mqtt.Topics{}
//	topics.CommandResponse("42", 204)
//	// Returns: "command///res/42/204"
type Topics struct{}

// CommandRequests returns the subscription pattern for all command requests.
//
// Pattern: command///req/#
func (Topics) CommandRequests() string {
	return TopicPrefixCommand + "///req/#"
}

// CommandResponse returns the topic answering request reqID with status.
//
// Example: command///res/42/204
func (Topics) CommandResponse(reqID string, status int) string {
	return TopicPrefixCommand + "///res/" + reqID + "/" + strconv.Itoa(status)
}

// Events returns the event topic.
func (Topics) Events() string {
	return TopicEvent
}

// Telemetry returns the telemetry topic.
func (Topics) Telemetry() string {
	return TopicTelemetry
}

// ParseCommandRequest splits a command request topic into its request id
// and subject. ok is false when topic is not a command request.
func ParseCommandRequest(topic string) (reqID, subject string, ok bool) {
	m := commandRequestPattern.FindStringSubmatch(topic)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ExtractRequestID returns the request id of a command request topic, or
// the empty string for one-way commands and topics of any other shape.
func ExtractRequestID(topic string) string {
	reqID, _, _ := ParseCommandRequest(topic)
	return reqID
}
