// Package logger builds the zerolog logger shared across the service.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger configured for the given environment. Production
// emits JSON to stdout; any other environment gets a human-friendly console
// writer. The level string accepts trace, debug, info, warn and error, and
// falls back to info when unrecognised.
func New(env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log := zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", "clinic-system").
		Logger()

	if strings.EqualFold(env, "production") {
		log = log.Output(os.Stdout)
	}
	return log
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
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
