package things

import (
	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// Message is a live message to or from a thing or one of its features.
// The subject doubles as the topic action.
type Message struct {
	topic   protocol.Topic
	subject string
	mailbox string
	address string
	payload any
}

// NewMessage returns a live message addressing the thing itself.
func NewMessage(thingID model.NamespacedID) *Message {
	return &Message{
		topic: defaultTopic(thingID, protocol.ChannelLive, protocol.CriterionMessages),
	}
}

// WithTopic replaces the topic.
func (m *Message) WithTopic(topic protocol.Topic) *Message {
	m.topic = topic
	return m
}

// Topic returns a copy of the current topic.
func (m *Message) Topic() protocol.Topic { return m.topic }

// Inbox sends the message to the thing under subject.
func (m *Message) Inbox(subject string) *Message {
	return m.mailboxSubject(MailboxInbox, subject)
}

// Outbox sends the message from the thing under subject.
func (m *Message) Outbox(subject string) *Message {
	return m.mailboxSubject(MailboxOutbox, subject)
}

func (m *Message) mailboxSubject(mailbox, subject string) *Message {
	m.topic.Action = protocol.Action(subject)
	m.subject = subject
	m.mailbox = mailbox
	return m
}

// WithPayload sets the message payload.
func (m *Message) WithPayload(payload any) *Message {
	m.payload = payload
	return m
}

// Feature addresses the message to a feature of the thing.
func (m *Message) Feature(featureID string) *Message {
	m.address = FeaturePath(featureID)
	return m
}

// Path returns the message path, e.g. "/features/lamp/inbox/messages/on".
func (m *Message) Path() string {
	return MessagePath(m.address, m.mailbox, m.subject)
}

// Envelope builds the message envelope with headers from opts.
func (m *Message) Envelope(opts ...protocol.HeaderOption) *protocol.Envelope {
	return build(m.topic, m.Path(), m.payload, opts)
}
