// Package logger provides the diagnostic logging used by ansetup internals.
// User-facing status lines ([INFO], [SUCCESS], ...) live in internal/ui;
// this package is for the trace that --verbose or ANSETUP_DEBUG turns on.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "ANSETUP_DEBUG"

// Logger is printf-style leveled logging.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

var verbose atomic.Bool

// SetVerbose forces debug output on regardless of ANSETUP_DEBUG.
// Wired to the root --verbose flag.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// DebugEnabled reports whether Debug calls produce output.
func DebugEnabled() bool {
	return verbose.Load() || os.Getenv(DebugEnv) != ""
}

// envLogger writes "<time> [component] LEVEL: message" lines.
type envLogger struct {
	prefix string
	out    *log.Logger
}

// NewEnvLogger logs to stderr. The prefix names the component, e.g.
// "[cloud-init]". Debug lines only appear when DebugEnabled.
func NewEnvLogger(prefix string) Logger {
	return newWriterLogger(os.Stderr, prefix)
}

func newWriterLogger(w io.Writer, prefix string) *envLogger {
	return &envLogger{prefix: prefix, out: log.New(w, "", log.Ltime)}
}

func (l *envLogger) line(level, format string, args ...interface{}) {
	parts := make([]string, 0, 3)
	if l.prefix != "" {
		parts = append(parts, l.prefix)
	}
	if level != "" {
		parts = append(parts, level+":")
	}
	parts = append(parts, fmt.Sprintf(format, args...))
	l.out.Print(strings.Join(parts, " "))
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.line("", format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) { l.line("", format, args...) }
func (l *envLogger) Warn(format string, args ...interface{}) { l.line("WARN", format, args...) }
func (l *envLogger) Error(format string, args ...interface{}) {
	l.line("ERROR", format, args...)
}

type noopLogger struct{}

// Noop discards everything.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Entry is one captured message.
type Entry struct {
	Level   string
	Message string
}

// BufferLogger records messages so tests can assert on them.
type BufferLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBufferLogger returns an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Entries returns a copy of what was logged.
func (l *BufferLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Contains reports whether a message at level contains substr. An empty
// level matches any level.
func (l *BufferLogger) Contains(level, substr string) bool {
	for _, e := range l.Entries() {
		if (level == "" || e.Level == level) && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
