// Package notify provides the outbound transports for ticket notifications:
// a Slack channel and an SMTP mailbox. Both are best-effort; callers log and
// swallow failures.
package notify

import "context"

// ChatSender posts a plain-text message to a chat destination.
type ChatSender interface {
	Send(ctx context.Context, message string) error
}

// EmailSender delivers an HTML email to the configured recipient.
type EmailSender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}
