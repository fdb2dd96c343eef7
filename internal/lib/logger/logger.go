package logger

import (
	"io"
	"log/slog"

	"gqlbench/internal/config"
)

// New builds the application logger for env: text output in local, JSON
// otherwise, with debug records dropped in prod.
func New(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case config.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log.With(slog.String("env", env))
}
