package protocol

import (
	"fmt"
	"strings"
)

// Group is the entity group a topic addresses.
type Group string

// Channel routes a things message to the twin or to the device.
type Channel string

// Criterion classifies a message.
type Criterion string

// Action is the verb of a message. For live messages it carries the
// message subject instead.
type Action string

// Topic groups.
const (
	GroupThings   Group = "things"
	GroupPolicies Group = "policies"
)

// Topic channels.
const (
	ChannelTwin Channel = "twin"
	ChannelLive Channel = "live"
)

// Topic criteria.
const (
	CriterionCommands Criterion = "commands"
	CriterionEvents   Criterion = "events"
	CriterionSearch   Criterion = "search"
	CriterionMessages Criterion = "messages"
	CriterionErrors   Criterion = "errors"
)

// Topic actions.
const (
	ActionCreate   Action = "create"
	ActionCreated  Action = "created"
	ActionModify   Action = "modify"
	ActionModified Action = "modified"
	ActionDelete   Action = "delete"
	ActionDeleted  Action = "deleted"
	ActionRetrieve Action = "retrieve"

	// Search protocol actions.
	ActionSubscribe Action = "subscribe"
	ActionRequest   Action = "request"
	ActionCancel    Action = "cancel"
	ActionNext      Action = "next"
	ActionComplete  Action = "complete"
	ActionFailed    Action = "failed"
)

const (
	topicSeparator = "/"

	// topicPrefixSegments is namespace, entity id and group.
	topicPrefixSegments = 3
)

// Topic is the address of a Ditto protocol message.
//
// Things topics have the form namespace/entity/things/channel/criterion[/action];
// policies topics carry no channel: namespace/entity/policies/criterion[/action].
// Empty fields are absent. Topic is a comparable value; copies never
// share state.
type Topic struct {
	Namespace string
	EntityID  string
	Group     Group
	Channel   Channel
	Criterion Criterion
	Action    Action
}

// ParseTopic parses a topic string.
//
// The group selects the grammar. A things topic needs a channel and a
// criterion, a policies topic a criterion; the action is optional and
// takes the rest of the string. A separator after the criterion must be
// followed by an action.
//
// Returns ErrMalformedTopic for missing segments, an empty action or an
// unknown group.
func ParseTopic(s string) (Topic, error) {
	parts := strings.SplitN(s, topicSeparator, topicPrefixSegments+1)
	if len(parts) <= topicPrefixSegments {
		return Topic{}, fmt.Errorf("%w: %q needs at least 4 segments", ErrMalformedTopic, s)
	}

	t := Topic{
		Namespace: parts[0],
		EntityID:  parts[1],
		Group:     Group(parts[2]),
	}
	rest := parts[3]

	switch t.Group {
	case GroupThings:
		channel, tail, ok := strings.Cut(rest, topicSeparator)
		if !ok || channel == "" {
			return Topic{}, fmt.Errorf("%w: things topic %q needs a channel and a criterion", ErrMalformedTopic, s)
		}
		t.Channel = Channel(channel)
		rest = tail
	case GroupPolicies:
	case "":
		return Topic{}, fmt.Errorf("%w: %q has no group", ErrMalformedTopic, s)
	default:
		return Topic{}, fmt.Errorf("%w: unknown group %q in %q", ErrMalformedTopic, t.Group, s)
	}

	criterion, action, hasAction := strings.Cut(rest, topicSeparator)
	if criterion == "" {
		return Topic{}, fmt.Errorf("%w: %q has no criterion", ErrMalformedTopic, s)
	}
	if hasAction && action == "" {
		return Topic{}, fmt.Errorf("%w: %q has an empty action", ErrMalformedTopic, s)
	}
	t.Criterion = Criterion(criterion)
	t.Action = Action(action)
	return t, nil
}

// MustParseTopic is like ParseTopic but panics on error.
func MustParseTopic(s string) Topic {
	t, err := ParseTopic(s)
	if err != nil {
		panic(err)
	}
	return t
}

// WithNamespace sets the namespace and returns the topic for chaining.
func (t *Topic) WithNamespace(namespace string) *Topic {
	t.Namespace = namespace
	return t
}

// WithEntityID sets the entity id.
func (t *Topic) WithEntityID(entityID string) *Topic {
	t.EntityID = entityID
	return t
}

// WithGroup sets the group.
func (t *Topic) WithGroup(group Group) *Topic {
	t.Group = group
	return t
}

// WithChannel sets the channel. It is ignored when formatting a policies topic.
func (t *Topic) WithChannel(channel Channel) *Topic {
	t.Channel = channel
	return t
}

// WithCriterion sets the criterion.
func (t *Topic) WithCriterion(criterion Criterion) *Topic {
	t.Criterion = criterion
	return t
}

// WithAction sets the action.
func (t *Topic) WithAction(action Action) *Topic {
	t.Action = action
	return t
}

// String formats the topic. It is computed on every call.
func (t Topic) String() string {
	var b strings.Builder
	b.WriteString(t.Namespace)
	b.WriteString(topicSeparator)
	b.WriteString(t.EntityID)
	b.WriteString(topicSeparator)
	b.WriteString(string(t.Group))

	suffixes := []string{string(t.Channel), string(t.Criterion), string(t.Action)}
	if t.Group == GroupPolicies {
		suffixes = suffixes[1:]
	}
	for _, s := range suffixes {
		if s != "" {
			b.WriteString(topicSeparator)
			b.WriteString(s)
		}
	}
	return b.String()
}
