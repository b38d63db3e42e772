package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/lighthouse-point/internal/server"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("Failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := server.NewRouter("notify")
	stack, err := server.Relay(ctx, r, cfg)
	if err != nil {
		logger.Error("Failed to set up mail relay", "error", err)
		os.Exit(1)
	}
	defer stack.Close()

	srv := server.NewHTTPServer(":"+cfg.Server.NotifyPort, r, cfg.Server)
	if err := server.Serve(ctx, srv, "notify"); err != nil {
		logger.Error("Notify service error", "error", err)
		os.Exit(1)
	}
}
