package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger options
type Config struct {
	Env   string // development -> human-readable console; anything else -> JSON
	Level string // trace, debug, info, warn, error
}

// Logger wraps zerolog for injection and consistency across packages
type Logger struct {
	zl zerolog.Logger
}

// New creates a structured logger. Development uses console output, production JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Redirect zerolog's global logger for libraries that use it
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug starts a debug-level event
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }

// Info starts an info-level event
func (l *Logger) Info() *zerolog.Event { return l.zl.Info() }

// Warn starts a warn-level event
func (l *Logger) Warn() *zerolog.Event { return l.zl.Warn() }

// Error starts an error-level event
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal starts a fatal-level event that exits the process
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With creates a sublogger with fixed fields
func (l *Logger) With() zerolog.Context { return l.zl.With() }
