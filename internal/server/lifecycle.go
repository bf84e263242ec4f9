// Package server holds process-level plumbing: logger setup and supervision
// of background goroutines.
package server

import (
	"context"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// SetupLogger builds the process logger: JSON to stdout, level from config.
func SetupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// RunWithRecovery keeps fn running until ctx is cancelled, recovering from
// panics and restarting with backoff that doubles up to one minute.
func RunWithRecovery(ctx context.Context, logger *slog.Logger, name string, fn func(ctx context.Context)) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			logger.Info("background task stopped", "name", name)
			return
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("background task panicked",
						"name", name,
						"panic", r,
						"stack", string(debug.Stack()),
					)
				}
			}()
			fn(ctx)
		}()

		select {
		case <-ctx.Done():
			logger.Info("background task stopped", "name", name)
			return
		case <-time.After(backoff):
		}

		if backoff < time.Minute {
			backoff *= 2
		}
		logger.Warn("background task restarting", "name", name, "next_backoff", backoff)
	}
}
