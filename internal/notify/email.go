package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/alnasr-it/helpdesk/internal/config"
)

// SMTPSender delivers notification emails over SMTP with STARTTLS and
// LOGIN authentication.
type SMTPSender struct {
	client    *mail.Client
	from      string
	recipient string
}

// NewSMTPSender builds a sender from configuration. Returns nil when
// credentials or the recipient are absent; email notifications are then
// skipped.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPSender{
		client:    client,
		from:      cfg.From,
		recipient: cfg.Recipient,
	}, nil
}

// Send delivers a single HTML email to the configured recipient.
func (s *SMTPSender) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(s.recipient); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return s.client.DialAndSendWithContext(ctx, msg)
}
