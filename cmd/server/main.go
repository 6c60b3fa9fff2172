package main

import (
	"context"
	"log/slog"
	"os"

	"go-book-library/internal/app"
	"go-book-library/internal/config"
	"go-book-library/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.Env, cfg.LogLevel))

	ctx := context.Background()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
