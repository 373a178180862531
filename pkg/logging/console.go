package logging

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleLogger writes human-oriented structured entries through zap.
// It backs --verbose and writes to stderr so stdout stays reserved for
// command output.
type ConsoleLogger struct {
	z *zap.Logger
}

// NewConsoleLogger creates a console logger writing entries at or above level
func NewConsoleLogger(w io.Writer, level Level) *ConsoleLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		zapLevel(level),
	)

	return &ConsoleLogger{z: zap.New(core)}
}

// Debug logs a debug message
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.z.Debug(msg, zapFields(fields)...)
}

// Info logs an info message
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.z.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.z.Warn(msg, zapFields(fields)...)
}

// Error logs an error message
func (l *ConsoleLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.z.Error(msg, zf...)
}

// WithFields returns a logger with additional fields
func (l *ConsoleLogger) WithFields(fields Fields) Logger {
	return &ConsoleLogger{z: l.z.With(zapFields(fields)...)}
}

// Close flushes buffered entries
func (l *ConsoleLogger) Close() error {
	// Sync on a terminal fails with EINVAL on some platforms
	_ = l.z.Sync()
	return nil
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	return zf
}
