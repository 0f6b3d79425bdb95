package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/i474232898/arso-exporter/internal/config"
)

// New builds the process logger: colored text in dev, JSON otherwise.
func New(cfg *config.AppConfig, version, appName string) *slog.Logger {
	return newLogger(os.Stdout, cfg, version, appName)
}

func newLogger(w io.Writer, cfg *config.AppConfig, version, appName string) *slog.Logger {
	if cfg.AppEnv == config.EnvDev {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
