// Package logger provides zerolog loggers used by the configuration loader
// and the modconf command.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is the level of loggers created by New.
const DefaultLevel = zerolog.WarnLevel

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New returns a logger, that writes human readable output to stderr at
// DefaultLevel.
func New() *Logger {
	return NewConsole(os.Stderr, DefaultLevel)
}

// NewConsole returns a logger, that writes human readable output to w.
func NewConsole(w io.Writer, level zerolog.Level) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("component", "modconf").
		Logger()

	return &Logger{logger}
}

// NewJSON returns a logger, that writes JSON lines to w.
func NewJSON(w io.Writer, level zerolog.Level) *Logger {
	logger := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", "modconf").
		Logger()

	return &Logger{logger}
}

// Nop returns a logger, that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// ParseLevel converts level name into zerolog level. Empty name gives
// DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return DefaultLevel, nil
	}

	return zerolog.ParseLevel(name)
}
