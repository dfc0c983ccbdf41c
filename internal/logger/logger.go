package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields represents key-value pairs for structured logging
type Fields map[string]interface{}

// Logger defines the interface for logging operations
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields Fields) Logger
}

// LogrusLogger adapts a logrus entry to the Logger interface
type LogrusLogger struct {
	*logrus.Entry
}

// WithFields returns a child logger carrying the given fields
func (l *LogrusLogger) WithFields(fields Fields) Logger {
	return &LogrusLogger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

var _ Logger = (*LogrusLogger)(nil)

// New creates a JSON logger writing to stdout
func New(level string) Logger {
	return NewWithOutput(level, os.Stdout)
}

// NewWithOutput creates a JSON logger writing to output
func NewWithOutput(level string, output io.Writer) Logger {
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(output)
	logrusLogger.SetFormatter(&logrus.JSONFormatter{})
	logrusLogger.SetLevel(ParseLevel(level))

	return &LogrusLogger{Entry: logrus.NewEntry(logrusLogger)}
}

// NewLogrusLogger creates a logger from an existing logrus.Logger instance
func NewLogrusLogger(logrusLogger *logrus.Logger) Logger {
	return &LogrusLogger{Entry: logrus.NewEntry(logrusLogger)}
}

// ParseLevel maps a LOG_LEVEL value to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
