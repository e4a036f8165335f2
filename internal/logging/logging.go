package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Levels written into the "level" field.
const (
	LevelInfo     = "info"
	LevelError    = "error"
	LevelCritical = "critical"
)

// Fields is one structured log entry.
type Fields map[string]any

// Logger writes one JSON object per line. It is safe for concurrent use.
type Logger struct {
	mu        *sync.Mutex
	enc       *json.Encoder
	loc       *time.Location
	component string
}

// New creates a Logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, enc: json.NewEncoder(w), loc: loc}
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

// With returns a child logger that stamps every entry with component.
// Children share the parent's writer and lock.
func (l *Logger) With(component string) *Logger {
	return &Logger{mu: l.mu, enc: l.enc, loc: l.loc, component: component}
}

// Info logs an info-level event.
func (l *Logger) Info(event string, f Fields) {
	l.write(LevelInfo, event, nil, f)
}

// Error logs an error-level event. err may be nil.
func (l *Logger) Error(event string, err error, f Fields) {
	l.write(LevelError, event, err, f)
}

// Critical logs a configuration or startup failure that leaves the service degraded.
func (l *Logger) Critical(event string, err error, f Fields) {
	l.write(LevelCritical, event, err, f)
}

func (l *Logger) write(level, event string, err error, f Fields) {
	entry := make(map[string]any, len(f)+5)
	for k, v := range f {
		entry[k] = v
	}
	if err != nil {
		entry["error_message"] = err.Error()
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["event"] = event
	if l.component != "" {
		entry["component"] = l.component
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
