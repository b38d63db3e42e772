package server

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/platform/mailer"
	"github.com/diagnosis/lighthouse-point/internal/relay"
	"github.com/diagnosis/lighthouse-point/internal/repo/postgres"
	redisrepo "github.com/diagnosis/lighthouse-point/internal/repo/redis"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/database"
	"github.com/diagnosis/lighthouse-point/pkg/events"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	mw "github.com/diagnosis/lighthouse-point/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

const rateLimitSweep = 10 * time.Minute

// RelayStack is the mail relay with the stores and subscriptions it opened.
type RelayStack struct {
	Service *relay.Service
	closers []func()
}

// Relay builds the mail relay and mounts its endpoint on r. Redis and Postgres are
// optional; without them the endpoint runs with no idempotency cache or rate limit.
func Relay(ctx context.Context, r chi.Router, cfg *config.Config) (*RelayStack, error) {
	stack := &RelayStack{}

	m, err := mailer.New(ctx, cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	stack.Service = relay.NewService(m, relay.OptionsFromConfig(cfg.Email))
	logger.Info("Mailer ready", "provider", m.Provider())

	opts := relay.MountOptions{
		Secret:         cfg.Relay.Secret,
		AllowOrigins:   cfg.Server.AllowOrigins,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	}

	if cfg.Redis.URL != "" {
		client, err := redisrepo.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			stack.Close()
			return nil, err
		}
		stack.closers = append(stack.closers, func() { client.Close() })
		opts.Idempotency = redisrepo.NewIdempotencyStore(client)
	}

	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			stack.Close()
			return nil, err
		}
		stack.closers = append(stack.closers, pool.Close)

		repo := postgres.NewRateLimitRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			stack.Close()
			return nil, fmt.Errorf("rate limit schema: %w", err)
		}
		opts.RateLimiter = mw.NewRateLimiter(repo, mw.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		})

		sweepCtx, cancel := context.WithCancel(ctx)
		stack.closers = append(stack.closers, cancel)
		go sweepRateLimits(sweepCtx, repo)
	}

	relay.NewHandler(stack.Service).Mount(r, opts)

	if cfg.Relay.Transport == notify.TransportNATS {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			stack.Close()
			return nil, err
		}
		stack.closers = append(stack.closers, func() { bus.Close() })

		if err := relay.NewSubscriber(bus, stack.Service, cfg.NATS.Queue).Start(); err != nil {
			stack.Close()
			return nil, err
		}
		logger.Info("Listening for inquiry events", "subject", events.InquirySubmitted, "queue", cfg.NATS.Queue)
	}

	return stack, nil
}

// Close releases everything Relay opened, newest first.
func (s *RelayStack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func sweepRateLimits(ctx context.Context, repo *postgres.RateLimitRepo) {
	ticker := time.NewTicker(rateLimitSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("Rate limit cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("Rate limit rows removed", "count", n)
			}
		}
	}
}
