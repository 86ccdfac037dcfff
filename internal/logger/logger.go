// Package logger configures the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"

	"github.com/wadrando/wadrando/internal/config"
)

// Setup builds the logger for the configured environment: JSON output in
// production, human-readable text everywhere else. The returned logger is
// also installed as the slog default.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
