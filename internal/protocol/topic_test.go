package protocol

import (
	"errors"
	"testing"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Topic
	}{
		{
			name:  "live message with subject",
			input: "my.ns/my.dev/things/live/messages/install",
			want: Topic{
				Namespace: "my.ns", EntityID: "my.dev", Group: GroupThings,
				Channel: ChannelLive, Criterion: CriterionMessages, Action: "install",
			},
		},
		{
			name:  "twin command",
			input: "my.ns/my.dev/things/twin/commands/modify",
			want: Topic{
				Namespace: "my.ns", EntityID: "my.dev", Group: GroupThings,
				Channel: ChannelTwin, Criterion: CriterionCommands, Action: ActionModify,
			},
		},
		{
			name:  "policies without channel",
			input: "my.ns/my.policy/policies/commands/modify",
			want: Topic{
				Namespace: "my.ns", EntityID: "my.policy", Group: GroupPolicies,
				Criterion: CriterionCommands, Action: ActionModify,
			},
		},
		{
			name:  "things without action",
			input: "my.ns/my.dev/things/twin/errors",
			want: Topic{
				Namespace: "my.ns", EntityID: "my.dev", Group: GroupThings,
				Channel: ChannelTwin, Criterion: CriterionErrors,
			},
		},
		{
			name:  "search topic with wildcard entity",
			input: "_/_/things/twin/search/subscribe",
			want: Topic{
				Namespace: "_", EntityID: "_", Group: GroupThings,
				Channel: ChannelTwin, Criterion: CriterionSearch, Action: ActionSubscribe,
			},
		},
		{
			name:  "action keeps remaining slashes",
			input: "my.ns/my.policy/policies/commands/modify/extra",
			want: Topic{
				Namespace: "my.ns", EntityID: "my.policy", Group: GroupPolicies,
				Criterion: CriterionCommands, Action: "modify/extra",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopic(tt.input)
			if err != nil {
				t.Fatalf("ParseTopic(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTopic(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if s := got.String(); s != tt.input {
				t.Errorf("String() = %q, want %q", s, tt.input)
			}
		})
	}
}

func TestParseTopic_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"my.ns",
		"my.ns/my.dev/things",
		"my.ns/my.dev/things/twin",
		"my.ns/my.dev/things//commands",
		"my.ns/my.dev/policies/",
		"my.ns/my.dev/devices/twin/commands",
		"my.ns/my.dev//twin/commands",
		"my.ns/my.dev/things/twin/commands/",
		"my.ns/my.policy/policies/commands/",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTopic(input)
			if !errors.Is(err, ErrMalformedTopic) {
				t.Errorf("ParseTopic(%q) error = %v, want ErrMalformedTopic", input, err)
			}
		})
	}
}

func TestMustParseTopic_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseTopic() did not panic")
		}
	}()
	MustParseTopic("bogus")
}

func TestTopic_String(t *testing.T) {
	tests := []struct {
		name  string
		topic Topic
		want  string
	}{
		{
			name: "command without action",
			topic: Topic{
				Namespace: "org.eclipse.ditto", EntityID: "smartcoffee", Group: GroupThings,
				Channel: ChannelTwin, Criterion: CriterionCommands,
			},
			want: "org.eclipse.ditto/smartcoffee/things/twin/commands",
		},
		{
			name: "policies ignore channel",
			topic: Topic{
				Namespace: "ns", EntityID: "p", Group: GroupPolicies,
				Channel: ChannelTwin, Criterion: CriterionCommands, Action: ActionDelete,
			},
			want: "ns/p/policies/commands/delete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.topic.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopic_Setters(t *testing.T) {
	var topic Topic
	topic.WithNamespace("ns").
		WithEntityID("dev").
		WithGroup(GroupThings).
		WithChannel(ChannelLive).
		WithCriterion(CriterionMessages).
		WithAction("ledColor")

	if got, want := topic.String(), "ns/dev/things/live/messages/ledColor"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	copied := topic
	copied.WithAction(ActionModify)
	if topic.Action != "ledColor" {
		t.Errorf("copy mutated original: Action = %q", topic.Action)
	}
}
