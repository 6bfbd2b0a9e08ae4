package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stdout, zerolog.InfoLevel, "json")
)

func newLogger(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Init configures the process logger. Format is "json" or "console".
func Init(level, format string) {
	SetOutput(os.Stdout, level, format)
}

// SetOutput is Init with an explicit writer, used by tests to capture output.
func SetOutput(w io.Writer, level, format string) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w, ParseLevel(level), format)
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

// Component returns a sub-logger tagged with the subsystem name.
func Component(name string) zerolog.Logger {
	return get().With().Str("component", name).Logger()
}

func Info() *zerolog.Event  { return get().Info() }
func Error() *zerolog.Event { return get().Error() }
func Warn() *zerolog.Event  { return get().Warn() }
func Debug() *zerolog.Event { return get().Debug() }
