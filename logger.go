package nweave

import (
	"fmt"
)

// BasicLogger is the logging interface Weaver uses to record chain
// assembly decisions.  It is just the start of what a logger might
// support; richer loggers adapt to it trivially.  The invocation
// fast path never logs.
type BasicLogger interface {
	Debug(msg string, fields ...map[string]any)
	Warn(msg string, fields ...map[string]any)
	Error(msg string, fields ...map[string]any)
}

// StdLogger is implemented by the base library log.Logger
type StdLogger interface {
	Print(v ...any)
}

// LoggerFromStd adapts a standard library style logger to
// BasicLogger.
func LoggerFromStd(log StdLogger) BasicLogger {
	return wrappedStdLogger{log: log}
}

type wrappedStdLogger struct {
	log StdLogger
}

func (std wrappedStdLogger) print(msg string, fields []map[string]any) {
	if len(fields) == 0 {
		std.log.Print(msg)
		return
	}
	vals := make([]any, 1, len(fields)*4+1)
	vals[0] = msg
	for _, m := range fields {
		for k, v := range m {
			vals = append(vals, k+"="+fmt.Sprint(v))
		}
	}
	std.log.Print(vals...)
}

func (std wrappedStdLogger) Debug(msg string, fields ...map[string]any) { std.print(msg, fields) }
func (std wrappedStdLogger) Warn(msg string, fields ...map[string]any)  { std.print(msg, fields) }
func (std wrappedStdLogger) Error(msg string, fields ...map[string]any) { std.print(msg, fields) }

// NoLogger returns a BasicLogger that discards all inputs.
func NoLogger() BasicLogger {
	return nilLogger{}
}

type nilLogger struct{}

var _ BasicLogger = nilLogger{}

func (nilLogger) Debug(msg string, fields ...map[string]any) {}
func (nilLogger) Warn(msg string, fields ...map[string]any)  {}
func (nilLogger) Error(msg string, fields ...map[string]any) {}
