// Package logging centralizes structured logging for ToolForge on top
// of charmbracelet/log. The default logger writes to stderr at info
// level; Configure adjusts level and destination from CLI flags or the
// TOOLFORGE_LOG_LEVEL environment variable.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the structured logger handed to components.
type Logger = *log.Logger

var defaultLogger = newLogger(os.Stderr, log.InfoLevel)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure sets the log level and optional log file. The level flag
// takes precedence over TOOLFORGE_LOG_LEVEL; both default to info.
func Configure(level, file string) error {
	if level == "" {
		level = os.Getenv("TOOLFORGE_LOG_LEVEL")
	}

	var output io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		output = f
	}

	defaultLogger = newLogger(output, parseLevel(level))
	return nil
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Component returns a logger with a component prefix that inherits the
// configured level.
func Component(name string) Logger {
	l := defaultLogger.With()
	l.SetPrefix(name)
	return l
}

// Debug logs at debug level with key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) { defaultLogger.Debug(msg, keyvals...) }

// Info logs at info level with key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) { defaultLogger.Info(msg, keyvals...) }

// Warn logs at warn level with key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) { defaultLogger.Warn(msg, keyvals...) }

// Error logs at error level with key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) { defaultLogger.Error(msg, keyvals...) }
