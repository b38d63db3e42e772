package mailer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/google/uuid"
)

// DevMailer prints messages instead of sending them.
type DevMailer struct {
	Out io.Writer
}

func NewDevMailer() *DevMailer {
	return &DevMailer{Out: os.Stdout}
}

func (d *DevMailer) Provider() string {
	return ProviderDev
}

func (d *DevMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	logger.InfoContext(ctx, "📧 [DEV MAIL] "+msg.Subject,
		"to", msg.To.Email,
		"from", msg.From.Email,
		"message_id", id,
	)

	fmt.Fprintf(d.Out, "\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"From: %s\n"+
		"To: %s\n"+
		"Subject: %s\n"+
		"\n"+
		"%s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		msg.From.String(), msg.To.String(), msg.Subject, msg.Text)

	return id, nil
}
