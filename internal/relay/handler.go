package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	authmw "github.com/diagnosis/lighthouse-point/internal/http/middleware"
	"github.com/diagnosis/lighthouse-point/internal/http/response"
	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/diagnosis/lighthouse-point/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	NotifyPath   = "/api/booking-notify"
	maxBodyBytes = 64 << 10
)

type Deliverer interface {
	Deliver(ctx context.Context, p notify.Payload) error
}

type Handler struct {
	svc Deliverer
}

func NewHandler(svc Deliverer) *Handler {
	return &Handler{svc: svc}
}

// MountOptions wires the protections in front of the notify endpoint. Nil stores skip their middleware.
type MountOptions struct {
	Secret         string
	AllowOrigins   []string
	Idempotency    middleware.IdempotencyStore
	IdempotencyTTL time.Duration
	RateLimiter    *middleware.RateLimiter
}

func (h *Handler) Mount(r chi.Router, opts MountOptions) {
	r.Group(func(r chi.Router) {
		if len(opts.AllowOrigins) > 0 {
			r.Use(middleware.CORS(opts.AllowOrigins))
		}
		r.Use(postOnly)
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware())
		}
		r.Use(authmw.RequireServiceToken(opts.Secret))
		if opts.Idempotency != nil {
			r.Use(middleware.Idempotency(opts.Idempotency, opts.IdempotencyTTL))
		}
		r.HandleFunc(NotifyPath, h.Notify)
	})
}

func postOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// Notify handles POST /api/booking-notify
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: "Request body too large"})
		return
	}

	payload, err := ValidatePayload(raw)
	if err != nil {
		var se *SchemaError
		msg := "Invalid JSON"
		if errors.As(err, &se) {
			msg = se.Error()
		}
		logger.WarnContext(r.Context(), "Rejected notify payload", "error", err)
		response.WriteJSON(w, http.StatusBadRequest, notify.Response{Error: msg})
		return
	}

	if err := h.svc.Deliver(r.Context(), payload); err != nil {
		logger.ErrorContext(r.Context(), "Email error", "error", err)
		response.WriteJSON(w, http.StatusInternalServerError, notify.Response{Error: "Failed to send email"})
		return
	}

	response.WriteJSON(w, http.StatusOK, notify.Response{Success: true, Message: "Emails sent"})
}
