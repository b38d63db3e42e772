package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/server"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/events"
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

	// Connect to event bus only when inquiries travel over NATS
	var pub events.Publisher
	if cfg.Relay.Transport == notify.TransportNATS {
		eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer eventBus.Close()
		pub = eventBus
	}

	notifier, err := notify.New(cfg.Relay, pub)
	if err != nil {
		logger.Error("Failed to set up relay", "error", err)
		os.Exit(1)
	}

	r := server.NewRouter("web")
	h, err := server.Web(r, cfg, notifier)
	if err != nil {
		logger.Error("Failed to set up booking API", "error", err)
		os.Exit(1)
	}

	srv := server.NewHTTPServer(":"+cfg.Server.Port, r, cfg.Server)
	if err := server.Serve(ctx, srv, "web", h.Drain); err != nil {
		logger.Error("Web service error", "error", err)
		os.Exit(1)
	}
}
