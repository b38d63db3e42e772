package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/server"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
)

// api runs the booking API and the mail relay in one process for local development.
// Inquiries reach the relay in-process instead of over HTTP or NATS.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("Failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	// Keeps the relay off NATS; the inline notifier below replaces the transport.
	cfg.Relay.Transport = notify.TransportHTTP

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := server.NewRouter("api")

	stack, err := server.Relay(ctx, r, cfg)
	if err != nil {
		logger.Error("Failed to set up mail relay", "error", err)
		os.Exit(1)
	}
	defer stack.Close()

	h, err := server.Web(r, cfg, notify.NewInlineRelay(stack.Service))
	if err != nil {
		logger.Error("Failed to set up booking API", "error", err)
		os.Exit(1)
	}

	srv := server.NewHTTPServer(":"+cfg.Server.Port, r, cfg.Server)
	if err := server.Serve(ctx, srv, "api", h.Drain); err != nil {
		logger.Error("API error", "error", err)
		os.Exit(1)
	}
}
