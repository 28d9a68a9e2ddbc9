package client

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  slog.Level
		name  string
	}{
		{LogLevelInfo, slog.LevelInfo, "info"},
		{LogLevelNotice, slog.LevelInfo, "notice"},
		{LogLevelWarning, slog.LevelWarn, "warning"},
		{LogLevelError, slog.LevelError, "error"},
		{LogLevelDebug, slog.LevelDebug, "debug"},
		{LogLevel(0x40), slog.LevelInfo, "LogLevel(0x40)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
			if got := tt.level.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		msg  string
		args []any
		want string
	}{
		{"plain", nil, "plain"},
		{"published", []any{"topic", "e", "bytes", 12}, "published topic=e bytes=12"},
		{"odd", []any{"topic", "e", "dangling"}, "odd topic=e dangling"},
	}

	for _, tt := range tests {
		if got := formatLine(tt.msg, tt.args); got != tt.want {
			t.Errorf("formatLine(%q, %v) = %q, want %q", tt.msg, tt.args, got, tt.want)
		}
	}
}

func TestLogFunc(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
		owner *Client
	)
	c := New(newMockTransport(), WithLogFunc(func(cl *Client, level LogLevel, msg string) {
		mu.Lock()
		defer mu.Unlock()
		if level == LogLevelDebug {
			owner = cl
			lines = append(lines, msg)
		}
	}))

	subs := c.Subscribe(func(string, *protocol.Envelope) {})

	mu.Lock()
	defer mu.Unlock()
	if owner != c {
		t.Error("LogFunc did not receive the client")
	}
	want := "handler subscribed subscription=" + subs[0].String()
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("lines = %q, want [%q]", lines, want)
	}
}

func TestLogFunc_PanicRecovered(t *testing.T) {
	logger := &recordingLogger{}
	c := New(newMockTransport(),
		WithLogger(logger),
		WithLogFunc(func(*Client, LogLevel, string) { panic("sink exploded") }),
	)

	subs := c.Subscribe(func(string, *protocol.Envelope) {})

	if len(subs) != 1 || c.HandlerCount() != 1 {
		t.Fatal("Subscribe() failed after LogFunc panic")
	}
	if !logger.has(slog.LevelDebug, "handler subscribed") {
		t.Error("Logger not reached after LogFunc panic")
	}
}
