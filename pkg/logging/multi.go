package logging

import (
	"context"

	"go.uber.org/multierr"
)

// MultiLogger sends every entry to several loggers
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers. With no logger it behaves like NullLogger.
func NewMultiLogger(loggers ...Logger) Logger {
	switch len(loggers) {
	case 0:
		return NewNullLogger()
	case 1:
		return loggers[0]
	}
	return &MultiLogger{loggers: loggers}
}

// Debug logs a debug message
func (m *MultiLogger) Debug(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Debug(ctx, msg, fields)
	}
}

// Info logs an info message
func (m *MultiLogger) Info(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Info(ctx, msg, fields)
	}
}

// Warn logs a warning message
func (m *MultiLogger) Warn(ctx context.Context, msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Warn(ctx, msg, fields)
	}
}

// Error logs an error message
func (m *MultiLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	for _, l := range m.loggers {
		l.Error(ctx, msg, err, fields)
	}
}

// WithFields returns a logger with additional fields on every target
func (m *MultiLogger) WithFields(fields Fields) Logger {
	derived := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		derived[i] = l.WithFields(fields)
	}
	return &MultiLogger{loggers: derived}
}

// Close closes every logger and combines their errors
func (m *MultiLogger) Close() error {
	var err error
	for _, l := range m.loggers {
		err = multierr.Append(err, l.Close())
	}
	return err
}
