package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ltd_tracker/internal/application"
	"ltd_tracker/internal/config"
	"ltd_tracker/pkg/contextx"
	"ltd_tracker/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.New(os.Stderr, slog.LevelInfo, false).Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := logx.New(os.Stdout, cfg.Log.Level, cfg.Log.NoColor)
	ctx = contextx.WithLogger(ctx, log)

	if err := application.New(cfg).Run(ctx); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}
}
