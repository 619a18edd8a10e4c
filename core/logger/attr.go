package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety: a nil error
// produces an empty Attr that slog silently drops, so call sites never need
// explicit nil checks.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component identifies the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a discrete occurrence (startup, shutdown, key_generated).
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Duration creates an attribute for elapsed time under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// UserID tags a record with the acting user.
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}
