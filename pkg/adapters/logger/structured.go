package logger

import (
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/sirupsen/logrus"
	"github.com/user/framefx/pkg/ports"
)

// StructuredLogger writes log entries through logrus, one entry per message,
// with the component in its own field.
type StructuredLogger struct {
	entry *logrus.Entry
	level ports.LogLevel
}

// Format names accepted by NewStructured.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewStructured creates a logrus-backed logger writing to w in the given
// format ("text" or "json").
func NewStructured(level ports.LogLevel, format string, w io.Writer) (*StructuredLogger, error) {
	base := logrus.New()
	base.SetOutput(w)

	switch format {
	case FormatJSON:
		base.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	base.SetLevel(logrusLevel(level))

	return &StructuredLogger{entry: logrus.NewEntry(base), level: level}, nil
}

func logrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelInfo:
		return logrus.InfoLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(msg string, args ...interface{}) {
	if l.level > ports.LevelDebug {
		return
	}
	l.entry.Debug(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *StructuredLogger) Info(msg string, args ...interface{}) {
	if l.level > ports.LevelInfo {
		return
	}
	l.entry.Info(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(msg string, args ...interface{}) {
	if l.level > ports.LevelWarn {
		return
	}
	l.entry.Warn(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *StructuredLogger) Error(msg string, args ...interface{}) {
	if l.level > ports.LevelError {
		return
	}
	l.entry.Error(l10n.F(msg, args...))
}

// WithComponent returns a logger that tags entries with component.
func (l *StructuredLogger) WithComponent(component string) ports.Logger {
	return &StructuredLogger{
		entry: l.entry.WithField("component", component),
		level: l.level,
	}
}

// WithField returns a logger that adds key=value to every entry.
func (l *StructuredLogger) WithField(key string, value interface{}) *StructuredLogger {
	return &StructuredLogger{
		entry: l.entry.WithField(key, value),
		level: l.level,
	}
}

var _ ports.Logger = (*StructuredLogger)(nil)
