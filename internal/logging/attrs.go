package logging

import (
	"log/slog"
	"time"
)

// Standardized structured logging keys. Every component uses these so log
// lines remain greppable regardless of handler format.
const (
	// FieldComponent is the standardized key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized key for duplex session identifiers.
	FieldSessionID = "session_id"
	// FieldHash is the standardized key for fingerprint digests.
	FieldHash = "hash"
	// FieldEventType tags log lines with a machine-readable event name.
	FieldEventType = "event_type"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs to the variadic any form expected by slog methods.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
