package logger

import (
	"log/slog"
	"os"
)

// Config logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Init installs the global slog logger
func Init(cfg Config) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ForJob returns a logger scoped to one upload job
func ForJob(jobID string) *slog.Logger {
	return slog.Default().With("job_id", jobID)
}
