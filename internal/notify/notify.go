package notify

import (
	"fmt"

	"github.com/diagnosis/lighthouse-point/internal/inquiry"
	"github.com/diagnosis/lighthouse-point/pkg/auth"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/events"
)

const (
	TransportHTTP = "http"
	TransportNATS = "nats"
	TransportLog  = "log"
)

// New picks the notifier for cfg.Transport. pub is only needed for nats.
func New(cfg config.RelayConfig, pub events.Publisher) (inquiry.Notifier, error) {
	switch cfg.Transport {
	case TransportHTTP, "":
		return NewHTTPRelay(cfg.URL, cfg.Path, RelayTokenSource(cfg)), nil
	case TransportNATS:
		if pub == nil {
			return nil, fmt.Errorf("relay transport nats needs an event bus")
		}
		return NewEventRelay(pub), nil
	case TransportLog:
		return LogRelay{}, nil
	default:
		return nil, fmt.Errorf("unknown relay transport %q", cfg.Transport)
	}
}

// RelayTokenSource signs a fresh service token per request, or none without a secret.
func RelayTokenSource(cfg config.RelayConfig) TokenSource {
	return func() (string, error) {
		if cfg.Secret == "" {
			return "", nil
		}
		return auth.NewRelayToken(cfg.Secret, cfg.TokenTTL)
	}
}
