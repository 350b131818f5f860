package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/logging"
	"github.com/iliyamo/talkmaster-dashboard/internal/server"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg := config.MustLoad()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	srv, err := server.New(cfg, server.LoadInfra(), logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
