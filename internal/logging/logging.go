package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"tankmon/internal/config"
)

// New builds the process logger: a tinted console handler for dev builds,
// JSON for everything else. Diagnostics go to stderr so the decoder's
// report output on stdout stays clean.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
