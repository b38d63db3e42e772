package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mailersend/mailersend-go"
)

type MailerSendMailer struct {
	client  *mailersend.Mailersend
	Enabled bool
}

func NewMailerSendMailer(apiKey string) *MailerSendMailer {
	m := &MailerSendMailer{
		Enabled: strings.TrimSpace(apiKey) != "",
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSendMailer) Provider() string {
	return ProviderMailerSend
}

func (m *MailerSendMailer) Send(ctx context.Context, msg Message) (string, error) {
	if !m.Enabled {
		return "", errors.New("mailer disabled (missing MAILERSEND_API_KEY)")
	}
	if err := msg.validate(); err != nil {
		return "", err
	}

	email := m.client.Email.NewMessage()
	email.SetFrom(mailersend.From{Name: msg.From.Name, Email: msg.From.Email})
	email.SetRecipients([]mailersend.Recipient{{Name: msg.To.Name, Email: msg.To.Email}})
	email.SetSubject(msg.Subject)
	if msg.ReplyTo != "" {
		email.SetReplyTo(mailersend.ReplyTo{Email: msg.ReplyTo})
	}
	if strings.TrimSpace(msg.Text) != "" {
		email.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		email.SetHTML(msg.HTML)
	}

	res, err := m.client.Email.Send(ctx, email)
	if err != nil {
		return "", fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}
