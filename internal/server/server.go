package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diagnosis/lighthouse-point/internal/http/response"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	mw "github.com/diagnosis/lighthouse-point/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 30 * time.Second

// NewRouter returns a chi router with the middleware every service shares.
func NewRouter(service string) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName(service))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Health)
	r.Use(mw.Metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	return r
}

func NewHTTPServer(addr string, h http.Handler, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Serve runs srv until ctx is done, then shuts it down and calls each drain in order.
func Serve(ctx context.Context, srv *http.Server, name string, drains ...func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting "+name+" service", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down " + name + " service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(name+" service shutdown error", "error", err)
	}
	for _, drain := range drains {
		if err := drain(shutdownCtx); err != nil {
			logger.Error(name+" service drain error", "error", err)
		}
	}
	return nil
}
