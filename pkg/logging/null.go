package logging

import "context"

// NullLogger discards every entry. Components given no logger fall back to
// it, as does a run without --log-file or --verbose.
type NullLogger struct{}

// NewNullLogger returns a logger that discards everything
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Debug(context.Context, string, Fields) {}

func (*NullLogger) Info(context.Context, string, Fields) {}

func (*NullLogger) Warn(context.Context, string, Fields) {}

func (*NullLogger) Error(context.Context, string, error, Fields) {}

// WithFields returns l itself, fields are dropped with the entries
func (l *NullLogger) WithFields(Fields) Logger {
	return l
}

func (*NullLogger) Close() error {
	return nil
}
