package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// NopLogger returns a logger that discards everything
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogRecorder collects JSON log lines written by concurrent goroutines
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer
func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// String returns everything logged so far
func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Entries decodes each logged line; undecodable lines are skipped
func (r *LogRecorder) Entries() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []map[string]any
	for line := range bytes.SplitSeq(r.buf.Bytes(), []byte("\n")) {
		var entry map[string]any
		if json.Unmarshal(line, &entry) == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// RecordingLogger returns a debug-level logger and the recorder behind it
func RecordingLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(slog.NewJSONHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug})), rec
}
