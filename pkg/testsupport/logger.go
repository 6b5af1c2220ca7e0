package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

// LogEntry is a single captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// RecordingLogger captures log calls for assertions.
type RecordingLogger struct {
	entries *[]LogEntry
	fields  map[string]any
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{entries: &[]LogEntry{}}
}

var (
	_ interfaces.Logger       = (*RecordingLogger)(nil)
	_ interfaces.FieldsLogger = (*RecordingLogger)(nil)
)

func (r *RecordingLogger) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *RecordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *RecordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *RecordingLogger) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

func (r *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(r.fields)+len(fields))
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingLogger{entries: r.entries, fields: merged}
}

// GetLogger lets the recorder double as an interfaces.LoggerProvider.
func (r *RecordingLogger) GetLogger(string) interfaces.Logger {
	return r
}

func (r *RecordingLogger) record(level, msg string, args []any) {
	fields := make(map[string]any, len(r.fields)+len(args)/2)
	for k, v := range r.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	recorderMu.Lock()
	*r.entries = append(*r.entries, LogEntry{Level: level, Message: msg, Fields: fields})
	recorderMu.Unlock()
}

var recorderMu sync.Mutex

// Entries returns a snapshot of every captured entry.
func (r *RecordingLogger) Entries() []LogEntry {
	recorderMu.Lock()
	defer recorderMu.Unlock()
	return append([]LogEntry(nil), (*r.entries)...)
}

// Find returns the entries matching level and message.
func (r *RecordingLogger) Find(level, msg string) []LogEntry {
	var out []LogEntry
	for _, entry := range r.Entries() {
		if entry.Level == level && entry.Message == msg {
			out = append(out, entry)
		}
	}
	return out
}

// Count returns the number of entries logged at level.
func (r *RecordingLogger) Count(level string) int {
	n := 0
	for _, entry := range r.Entries() {
		if entry.Level == level {
			n++
		}
	}
	return n
}
