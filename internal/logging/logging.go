// SPDX-License-Identifier: AGPL-3.0-only
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level represents a logging severity level.
type Level int

// Available logging levels, in increasing severity.
const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

// Options configures a Logger.
type Options struct {
	// Output is the destination for log lines (default: stderr).
	Output io.Writer

	// Level is the minimum severity that will be emitted.
	Level Level
}

// Logger is a leveled logger with optional structured fields.
type Logger struct {
	l *charmlog.Logger
}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
)

// New creates a Logger with the given options.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cl := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		Level:           toCharmLevel(opts.Level),
	})
	return &Logger{l: cl}
}

// FileLogger creates a Logger that appends to the file at path.
func FileLogger(path string, level Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	return New(Options{Output: f, Level: level}), nil
}

// GetDefaultLogger returns the process-wide default logger, creating an
// info-level stderr logger if none has been set.
func GetDefaultLogger() *Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{Level: Info})
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide default logger.
func SetDefaultLogger(l *Logger) {
	defaultLoggerMu.Lock()
	defaultLogger = l
	defaultLoggerMu.Unlock()
}

// WithField returns a Logger that includes the given key/value pair on every
// line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{l: l.l.With(key, value)}
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.l.Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.l.Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.l.Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.l.Errorf(format, args...)
}

// Fatalf logs a formatted message at fatal level and exits.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.l.Fatalf(format, args...)
}

// ParseLevel converts a level name into a Level, defaulting to Info for
// unrecognized input.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	case "fatal":
		return Fatal
	default:
		return Info
	}
}

func toCharmLevel(level Level) charmlog.Level {
	switch level {
	case Debug:
		return charmlog.DebugLevel
	case Warn:
		return charmlog.WarnLevel
	case Error:
		return charmlog.ErrorLevel
	case Fatal:
		return charmlog.FatalLevel
	default:
		return charmlog.InfoLevel
	}
}
