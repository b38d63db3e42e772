package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/diagnosis/lighthouse-point/pkg/config"
)

const (
	ProviderDev        = "dev"
	ProviderSMTP       = "smtp"
	ProviderMailerSend = "mailersend"
	ProviderSES        = "ses"
)

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

type Message struct {
	From    Address
	To      Address
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To.Email) == "" {
		return fmt.Errorf("empty recipient email")
	}
	if strings.TrimSpace(m.From.Email) == "" {
		return fmt.Errorf("empty sender email")
	}
	return nil
}

// Service sends one message and returns the provider's message id when it has one.
type Service interface {
	Send(ctx context.Context, msg Message) (string, error)
	Provider() string
}

// New builds the mailer named by cfg.Provider.
func New(ctx context.Context, cfg config.EmailConfig) (Service, error) {
	switch cfg.Provider {
	case ProviderDev, "":
		return NewDevMailer(), nil
	case ProviderSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS), nil
	case ProviderMailerSend:
		m := NewMailerSendMailer(cfg.MailerSendKey)
		if !m.Enabled {
			return nil, fmt.Errorf("mailersend provider needs MAILERSEND_API_KEY")
		}
		return m, nil
	case ProviderSES:
		return NewSESMailer(ctx, cfg.SESRegion)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
