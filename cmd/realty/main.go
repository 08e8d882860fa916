// Package main содержит точку входа консольного клиента маркетплейса.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/estatery/realty-client/internal/app/cli"
	"github.com/estatery/realty-client/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	logger.Debug("starting realty client", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize client", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
