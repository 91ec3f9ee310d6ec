package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/app"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logging.New(logging.LevelError).Error("Failed to initialize", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		application.Logger.Info("Shutting down...")
		cancel()
	}()

	if err := application.Run(ctx); err != nil && err != context.Canceled {
		application.Logger.Error("Worker error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Shutdown(context.Background()); err != nil {
		application.Logger.Error("Shutdown error", logging.WithField("error", err.Error()))
	}
}
