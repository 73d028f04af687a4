// Package themeprefs provides default logging implementations.
package themeprefs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel defines the various log levels.
// These correspond to slog's levels.
type LogLevel int

// Log level constants, mirroring slog levels for internal mapping.
const (
	LogLevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LogLevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LogLevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LogLevelError LogLevel = LogLevel(slog.LevelError)
)

// ParseLogLevel maps "debug", "info", "warn"/"warning" and "error" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	}
	return LogLevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidInput, s)
}

// Logger defines the interface for logging operations.
// The args should be alternating key-value pairs, similar to slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level LogLevel)
}

// defaultSlogLogger is an implementation of the Logger interface using the slog package.
type defaultSlogLogger struct {
	slogger  *slog.Logger
	levelVar *slog.LevelVar
}

// NewDefaultLogger initializes a new slog-backed Logger.
// It defaults to a JSON handler writing to os.Stderr with slog.LevelInfo.
func NewDefaultLogger() Logger {
	return NewSlogLogger(os.Stderr, false)
}

// NewSlogLogger builds a slog-backed Logger writing to w, as JSON or, when
// text is true, in logfmt style.
func NewSlogLogger(w io.Writer, text bool) Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	opts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		handler = slog.NewTextHandler(w, opts)
	}
	return &defaultSlogLogger{
		slogger:  slog.New(handler),
		levelVar: levelVar,
	}
}

func newDefaultLogger() Logger {
	return NewDefaultLogger()
}

// Debug logs a debug-level message.
func (l *defaultSlogLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs an info-level message.
func (l *defaultSlogLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs a warning-level message.
func (l *defaultSlogLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs an error-level message.
func (l *defaultSlogLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// SetLevel changes the logging level dynamically.
func (l *defaultSlogLogger) SetLevel(level LogLevel) {
	if l.levelVar != nil {
		l.levelVar.Set(slog.Level(level))
	}
}

type loggerHolder struct{ Logger }

var packageLogger atomic.Pointer[loggerHolder]

// SetDefaultLogger replaces the logger used where no controller is in scope.
// A nil logger restores the stderr default.
func SetDefaultLogger(l Logger) {
	if l == nil {
		packageLogger.Store(nil)
		return
	}
	packageLogger.Store(&loggerHolder{l})
}

// DefaultLogger returns the logger set with SetDefaultLogger, or a stderr
// JSON logger.
func DefaultLogger() Logger {
	if h := packageLogger.Load(); h != nil {
		return h.Logger
	}
	l := newDefaultLogger()
	if packageLogger.CompareAndSwap(nil, &loggerHolder{l}) {
		return l
	}
	return packageLogger.Load().Logger
}
