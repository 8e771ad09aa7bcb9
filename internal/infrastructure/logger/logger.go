package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pulse-server/services/advisor-api/internal/config"
)

// New creates a zerolog.Logger configured for the advisor service. Production
// emits machine-readable JSON; every other environment gets the console writer.
func New(cfg *config.Config) zerolog.Logger {
	return log.Output(outputFor(cfg, os.Stdout)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger().
		Level(parseLevel(cfg.LogLevel))
}

func outputFor(cfg *config.Config, w io.Writer) io.Writer {
	if cfg.Environment == "production" {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
