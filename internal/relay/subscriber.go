package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diagnosis/lighthouse-point/pkg/events"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
)

const deliverTimeout = 30 * time.Second

// Subscriber delivers inquiries published on the event bus. Queue members share the load.
type Subscriber struct {
	bus   events.Subscriber
	svc   Deliverer
	queue string
}

func NewSubscriber(bus events.Subscriber, svc Deliverer, queue string) *Subscriber {
	return &Subscriber{bus: bus, svc: svc, queue: queue}
}

func (s *Subscriber) Start() error {
	return s.bus.QueueSubscribe(events.InquirySubmitted, s.queue, s.handle)
}

func (s *Subscriber) handle(msg *events.Message) {
	ctx := context.WithValue(context.Background(), logger.ServiceKey, "notify")

	var event events.InquirySubmittedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.ErrorContext(ctx, "Failed to decode inquiry event", "subject", msg.Subject, "error", err)
		return
	}
	if event.RequestID != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, event.RequestID)
	}
	ctx = logger.WithReference(ctx, event.Reference)

	payload, err := ValidatePayload(event.Payload)
	if err != nil {
		logger.ErrorContext(ctx, "Dropped invalid inquiry event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	if err := s.svc.Deliver(ctx, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to deliver inquiry event", "message_id", msg.ID, "error", err)
		return
	}
	logger.DebugContext(ctx, "Delivered inquiry event", "message_id", msg.ID)
}
