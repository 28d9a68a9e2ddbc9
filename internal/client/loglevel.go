package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the severity passed to a LogFunc.
type LogLevel int

// Log levels. The values are bit flags so a LogFunc may filter with a mask.
const (
	LogLevelInfo    LogLevel = 0x01
	LogLevelNotice  LogLevel = 0x02
	LogLevelWarning LogLevel = 0x04
	LogLevelError   LogLevel = 0x08
	LogLevelDebug   LogLevel = 0x10
)

// SlogLevel maps l onto the slog severity used for the Logger sink.
// Notice has no slog counterpart and maps to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelInfo:
		return "info"
	case LogLevelNotice:
		return "notice"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	case LogLevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("LogLevel(%#x)", int(l))
	}
}

// Logger is the structured log sink of a Client.
// *slog.Logger and *logging.Logger satisfy it.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}

// LogFunc receives every client log line, in addition to the Logger.
// A panicking LogFunc is recovered and ignored.
type LogFunc func(c *Client, level LogLevel, msg string)

// log writes to both sinks. Neither is required.
func (c *Client) log(ctx context.Context, level LogLevel, msg string, args ...any) {
	if c.logFunc != nil {
		c.callLogFunc(level, formatLine(msg, args))
	}
	if c.logger != nil {
		c.logger.Log(ctx, level.SlogLevel(), msg, args...)
	}
}

func (c *Client) callLogFunc(level LogLevel, line string) {
	defer func() {
		_ = recover()
	}()
	c.logFunc(c, level, line)
}

// formatLine renders slog-style key/value args as "msg k=v k=v".
func formatLine(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return b.String()
}
