package logger

import "time"

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOp creates a new no-op logger instance.
func NewNoOp() Interface {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(string, ...any) {}
func (l *NoOpLogger) Info(string, ...any)  {}
func (l *NoOpLogger) Warn(string, ...any)  {}
func (l *NoOpLogger) Error(string, ...any) {}
func (l *NoOpLogger) Fatal(string, ...any) {}

func (l *NoOpLogger) With(...any) Interface                { return l }
func (l *NoOpLogger) WithComponent(string) Interface       { return l }
func (l *NoOpLogger) WithRequestID(string) Interface       { return l }
func (l *NoOpLogger) WithDuration(time.Duration) Interface { return l }
func (l *NoOpLogger) WithError(error) Interface            { return l }
