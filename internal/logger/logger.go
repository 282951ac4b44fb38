// Package logger provides a simple logging interface for infradash components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DebugEnv enables debug output for every env logger when set to any value.
const DebugEnv = "INFRADASH_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger implements Logger on top of zerolog.
// Debug messages are only printed when INFRADASH_DEBUG is set or debug was forced.
type envLogger struct {
	zl    zerolog.Logger
	debug bool
}

// NewEnvLogger creates a stderr logger that respects the INFRADASH_DEBUG environment variable.
// The component name is attached to every message (e.g., "probe" or "dashboard").
func NewEnvLogger(component string) Logger {
	return NewWriterLogger(os.Stderr, component, false)
}

// NewWriterLogger creates a logger writing human-readable lines to w.
// When debug is true, Debug messages are printed regardless of the environment.
func NewWriterLogger(w io.Writer, component string, debug bool) Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
	ctx := zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return &envLogger{zl: ctx.Logger(), debug: debug}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if !l.debug && os.Getenv(DebugEnv) == "" {
		return
	}
	l.zl.Debug().Msgf(format, args...)
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// With returns a logger for a sub-component sharing the same output.
// Loggers that are not env loggers are returned unchanged.
func With(l Logger, component string) Logger {
	el, ok := l.(*envLogger)
	if !ok {
		return l
	}
	return &envLogger{
		zl:    el.zl.With().Str("component", component).Logger(),
		debug: el.debug,
	}
}

// WithLevel returns a logger that drops messages below level ("debug",
// "info", "warn", or "error"). "debug" also enables Debug output without
// INFRADASH_DEBUG. Unknown levels and non-env loggers are returned unchanged.
func WithLevel(l Logger, level string) Logger {
	el, ok := l.(*envLogger)
	if !ok {
		return l
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return l
	}
	return &envLogger{
		zl:    el.zl.Level(lvl),
		debug: el.debug || lvl == zerolog.DebugLevel,
	}
}

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Safe for use from the goroutines the probe and orchestrator start.
type BufferLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Messages returns a copy of the captured messages.
func (l *BufferLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any captured message contains substr.
func (l *BufferLogger) Contains(substr string) bool {
	for _, m := range l.Messages() {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

// defaultLogger is the package-level default logger.
var (
	defaultMu     sync.RWMutex
	defaultLogger = NewEnvLogger("")
)

// Default returns the default logger for the package.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
// This is useful for testing or to configure logging globally.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
