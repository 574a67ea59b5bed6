package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/emiliopalmerini/despertar/internal/app"
)

func main() {
	cfg, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		log.Fatal(err)
	}
}
