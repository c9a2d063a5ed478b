// Package infrastructure wires process-level concerns shared by the cmd
// entry points, currently structured logging.
package infrastructure

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"nycsales/internal/config"
)

// InitializeLogger creates the process logger from configuration, stamps it
// with a fresh run identifier, and installs it as the slog default. The run
// ID ties log lines, snapshots and reports from one batch run together.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, string) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	runID := uuid.NewString()
	logger := slog.New(handler).With(slog.String("run_id", runID))
	slog.SetDefault(logger)

	return logger, runID
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
