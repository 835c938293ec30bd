package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/schemabind/internal/binder"
)

// LogEntry is one message delivered to a LogRecorder.
type LogEntry struct {
	Level   binder.LogLevel
	Message string
}

// String renders the entry as "level: message".
func (e LogEntry) String() string {
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

// LogRecorder captures binder diagnostics for later inspection.
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Func returns a binder.LogFunc that appends to the recorder.
func (r *LogRecorder) Func() binder.LogFunc {
	return func(level binder.LogLevel, msg string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = append(r.entries, LogEntry{Level: level, Message: msg})
	}
}

// Entries returns a copy of everything recorded so far.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

// AtLeast returns the entries at or above level.
func (r *LogRecorder) AtLeast(level binder.LogLevel) []LogEntry {
	var out []LogEntry
	for _, e := range r.Entries() {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all recorded entries.
func (r *LogRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
