package server

import (
	"fmt"

	"github.com/diagnosis/lighthouse-point/internal/http/handlers/booking"
	"github.com/diagnosis/lighthouse-point/internal/inquiry"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	mw "github.com/diagnosis/lighthouse-point/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

// Web mounts the booking API under /api on r and returns its handler for draining.
func Web(r chi.Router, cfg *config.Config, notifier inquiry.Notifier) (*booking.Handler, error) {
	mode, err := inquiry.ParseMode(cfg.Inquiry.ConfirmMode)
	if err != nil {
		return nil, fmt.Errorf("inquiry config: %w", err)
	}

	h := booking.NewHandler(inquiry.DefaultCatalog(), notifier, booking.Config{
		Mode:          mode,
		NotifyTimeout: cfg.Inquiry.NotifyTimeout,
		LookAhead:     cfg.Inquiry.LookAhead,
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.CORS(cfg.Server.AllowOrigins))
		r.Mount("/api", h.Routes())
	})
	return h, nil
}
