package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SlotCurator/internal/app"
	"SlotCurator/internal/config"
	"SlotCurator/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "once" {
		if err := application.RunOnce(ctx); err != nil {
			logger.Error("selection run failed", "error", err)
			_ = application.Shutdown(ctx)
			os.Exit(1)
		}
		_ = application.Shutdown(ctx)
		return
	}

	if err := application.Start(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
