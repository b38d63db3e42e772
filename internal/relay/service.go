package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/platform/mailer"
	"github.com/diagnosis/lighthouse-point/pkg/config"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/diagnosis/lighthouse-point/pkg/metrics"
)

const (
	GuestSubject = "Booking Inquiry Received — Lighthouse Point Hotel"
	staffSubject = "New Booking Inquiry: %s %s — %s"
)

type Options struct {
	HotelName  string
	HotelPhone string
	From       mailer.Address // guest-facing sender
	StaffFrom  mailer.Address
	StaffTo    mailer.Address
}

func OptionsFromConfig(cfg config.EmailConfig) Options {
	return Options{
		HotelName:  cfg.FromName,
		HotelPhone: cfg.HotelPhone,
		From:       mailer.Address{Name: cfg.FromName, Email: cfg.FromEmail},
		StaffFrom:  mailer.Address{Name: "Website", Email: cfg.StaffFrom},
		StaffTo:    mailer.Address{Email: cfg.StaffEmail},
	}
}

// Service turns an inquiry payload into the guest confirmation and the staff notice.
type Service struct {
	mailer mailer.Service
	opts   Options
	now    func() time.Time
}

func NewService(m mailer.Service, opts Options) *Service {
	return &Service{
		mailer: m,
		opts:   opts,
		now:    time.Now,
	}
}

// Deliver sends the guest email, then the staff email. The first failure stops delivery.
func (s *Service) Deliver(ctx context.Context, p notify.Payload) error {
	if p.Reference != "" {
		ctx = logger.WithReference(ctx, p.Reference)
	}

	data := emailData{
		P:          p,
		HotelName:  s.opts.HotelName,
		HotelPhone: s.opts.HotelPhone,
		PhoneHref:  telHref(s.opts.HotelPhone),
		Guests:     guestsLine(p.Adults, p.Children),
		Year:       s.now().Year(),
	}

	guestHTML, err := render("guest.html", data)
	if err != nil {
		return err
	}
	staffHTML, err := render("staff.html", data)
	if err != nil {
		return err
	}

	guest := mailer.Message{
		From:    s.opts.From,
		To:      mailer.Address{Name: p.FirstName + " " + p.LastName, Email: p.Email},
		Subject: GuestSubject,
		Text:    guestText(data),
		HTML:    guestHTML,
	}
	if err := s.send(ctx, "guest", guest); err != nil {
		return err
	}

	staff := mailer.Message{
		From:    s.opts.StaffFrom,
		To:      s.opts.StaffTo,
		ReplyTo: p.Email,
		Subject: fmt.Sprintf(staffSubject, p.FirstName, p.LastName, p.Room),
		Text:    staffText(data),
		HTML:    staffHTML,
	}
	return s.send(ctx, "staff", staff)
}

func (s *Service) send(ctx context.Context, audience string, msg mailer.Message) error {
	provider := s.mailer.Provider()

	id, err := s.mailer.Send(ctx, msg)
	if err != nil {
		metrics.EmailsFailed.WithLabelValues(audience, provider).Inc()
		logger.ErrorContext(ctx, "Failed to send email", "audience", audience, "provider", provider, "error", err)
		return fmt.Errorf("send %s email: %w", audience, err)
	}

	metrics.EmailsSent.WithLabelValues(audience, provider).Inc()
	logger.InfoContext(ctx, "Email sent", "audience", audience, "provider", provider, "message_id", id)
	return nil
}
