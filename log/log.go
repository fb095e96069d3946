package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type NewLoggerOptions struct {
	JSON   bool
	Level  slog.Level
	NoTime bool
	// Writer to log to, default [os.Stderr].
	Writer io.Writer
}

// redactedKeys are never logged with their value.
var redactedKeys = map[string]bool{
	"password": true,
	"token":    true,
}

func NewLogger(opts NewLoggerOptions) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	replaceAttr := func(groups []string, a slog.Attr) slog.Attr {
		switch {
		case a.Key == slog.TimeKey && len(groups) == 0:
			if opts.NoTime {
				return slog.Attr{}
			}
			return a
		case redactedKeys[strings.ToLower(a.Key)]:
			return slog.String(a.Key, "[redacted]")
		default:
			return a
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: replaceAttr,
	}

	if opts.JSON {
		return slog.New(slog.NewJSONHandler(opts.Writer, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(opts.Writer, handlerOpts))
}

// ParseLevel from one of "debug", "info", "warn", or "error", case-insensitively.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}
