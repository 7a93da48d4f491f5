package logging

import "github.com/vvka-141/retryclass/pkg/retryclass"

var (
	_ retryclass.Logger = (*ConsoleLogger)(nil)
	_ retryclass.Logger = (*NullLogger)(nil)
)

// NullLogger is a no-op logger that discards all log messages.
// Used when output is machine-readable and must not be interleaved with logs.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Verbose is a no-op.
func (l *NullLogger) Verbose(format string, args ...interface{}) {}

// Info is a no-op.
func (l *NullLogger) Info(format string, args ...interface{}) {}

// Error is a no-op.
func (l *NullLogger) Error(format string, args ...interface{}) {}
