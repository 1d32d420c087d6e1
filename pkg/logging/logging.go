package logging

import (
	"github.com/go-logr/logr"
)

const (
	LEVEL_INFO  = 0
	LEVEL_DEBUG = 1
	LEVEL_TRACE = 2
)

// NewLogger wraps log. A zero logr.Logger is valid and drops everything.
func NewLogger(log logr.Logger) *Logger {
	return &Logger{log: log}
}

// DefaultLogger returns a Logger that drops everything.
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// LevelFromFlags maps the -v and -vv command line switches to a verbosity level.
func LevelFromFlags(verbose, trace bool) int {
	switch {
	case trace:
		return LEVEL_TRACE
	case verbose:
		return LEVEL_DEBUG
	default:
		return LEVEL_INFO
	}
}

// Logger is a struct that wraps the logr.Logger interface.
type Logger struct {
	log logr.Logger
}

// Logr returns the wrapped logr.Logger for packages that take one directly.
func (l *Logger) Logr() logr.Logger {
	return l.log
}

// WithValues returns a Logger that attaches keysAndValues to every message, typically the image being processed.
func (l *Logger) WithValues(keysAndValues ...interface{}) *Logger {
	return &Logger{log: l.log.WithValues(keysAndValues...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.V(LEVEL_DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.log.V(LEVEL_TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, msg, keysAndValues...)
}
