package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diagnosis/lighthouse-point/internal/inquiry"
	"github.com/diagnosis/lighthouse-point/pkg/events"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/diagnosis/lighthouse-point/pkg/metrics"
)

// EventRelay hands inquiries to the relay over the event bus.
type EventRelay struct {
	pub events.Publisher
}

func NewEventRelay(pub events.Publisher) *EventRelay {
	return &EventRelay{pub: pub}
}

func (r *EventRelay) Notify(ctx context.Context, n inquiry.Notification) error {
	payload, err := json.Marshal(FromNotification(n))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	requestID, _ := ctx.Value(logger.RequestIDKey).(string)
	event := events.InquirySubmittedEvent{
		Reference:   n.Reference,
		Payload:     payload,
		SubmittedAt: n.SubmittedAt,
		RequestID:   requestID,
	}

	if err := r.pub.Publish(ctx, events.InquirySubmitted, event); err != nil {
		metrics.NotificationsFailed.WithLabelValues("nats").Inc()
		return err
	}
	return nil
}

// LogRelay only logs the inquiry. Used in development when no relay runs.
type LogRelay struct{}

func (LogRelay) Notify(ctx context.Context, n inquiry.Notification) error {
	logger.InfoContext(ctx, "Inquiry notification (log relay)",
		"room", n.RoomName,
		"check_in", n.Fields.CheckIn.String(),
		"check_out", n.Fields.CheckOut.String(),
		"adults", n.Fields.Adults,
		"children", n.Fields.Children,
	)
	return nil
}

// Deliverer takes a payload in-process, as the relay service does.
type Deliverer interface {
	Deliver(ctx context.Context, p Payload) error
}

// InlineRelay calls the relay service directly. Used when both run in one process.
type InlineRelay struct {
	d Deliverer
}

func NewInlineRelay(d Deliverer) *InlineRelay {
	return &InlineRelay{d: d}
}

func (r *InlineRelay) Notify(ctx context.Context, n inquiry.Notification) error {
	if err := r.d.Deliver(ctx, FromNotification(n)); err != nil {
		metrics.NotificationsFailed.WithLabelValues("inline").Inc()
		return err
	}
	return nil
}
