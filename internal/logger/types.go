// Package logger provides structured logging for trendscout.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
)

// Default configuration values.
const (
	DefaultLevel    = InfoLevel
	DefaultEncoding = "console"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `mapstructure:"level" yaml:"level"`
	// Development enables colored levels and human timestamps.
	Development bool `mapstructure:"development" yaml:"development"`
	// Encoding is either "console" or "json".
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}
