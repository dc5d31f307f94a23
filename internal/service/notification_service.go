package service

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/alnasr-it/helpdesk/internal/events"
	"github.com/alnasr-it/helpdesk/internal/notify"
)

// NotificationService turns ticket lifecycle events into chat and email
// messages. Delivery is best-effort: failures are logged and never surfaced
// to the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	chat       notify.ChatSender
	email      notify.EmailSender
	logger     *zap.Logger
}

// NewNotificationService creates the service. Either sender may be nil when
// its transport is not configured.
func NewNotificationService(dispatcher events.Dispatcher, chat notify.ChatSender, email notify.EmailSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		chat:       chat,
		email:      email,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Error("unexpected payload for ticket_created event", zap.String("ticket_number", event.TicketNumber))
		return nil
	}

	n.sendChat(ctx, ticketCreatedChatMessage(event.TicketNumber, payload))
	n.sendEmail(ctx,
		fmt.Sprintf("New IT Support Ticket - %s", event.TicketNumber),
		ticketCreatedEmailBody(event, payload))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		n.logger.Error("unexpected payload for ticket_status_changed event", zap.String("ticket_number", event.TicketNumber))
		return nil
	}

	n.sendChat(ctx, statusChangedChatMessage(event.TicketNumber, payload))
	n.sendEmail(ctx,
		fmt.Sprintf("Ticket Status Updated - %s", event.TicketNumber),
		statusChangedEmailBody(event.TicketNumber, payload))
	return nil
}

func (n *NotificationService) sendChat(ctx context.Context, message string) {
	if n.chat == nil {
		n.logger.Warn("chat notifications not configured; skipping")
		return
	}
	if err := n.chat.Send(ctx, message); err != nil {
		n.logger.Error("chat notification failed", zap.Error(err))
		return
	}
	n.logger.Info("chat notification sent")
}

func (n *NotificationService) sendEmail(ctx context.Context, subject, body string) {
	if n.email == nil {
		n.logger.Warn("email notifications not configured; skipping")
		return
	}
	if err := n.email.Send(ctx, subject, body); err != nil {
		n.logger.Error("email notification failed", zap.Error(err))
		return
	}
	n.logger.Info("email notification sent")
}

const timestampLayout = "2006-01-02 15:04"

func ticketCreatedChatMessage(ticketNumber string, p events.TicketCreatedPayload) string {
	return fmt.Sprintf(`:ticket: New Ticket Created

Ticket: %s
Site: %s
Description: %s
Submitted by: %s
Status: %s`,
		ticketNumber, p.Site, p.Description, p.Sender, p.Status)
}

func ticketCreatedEmailBody(event events.Event, p events.TicketCreatedPayload) string {
	return fmt.Sprintf(`<h2>New IT Support Ticket</h2>
<p><strong>Ticket Number:</strong> %s</p>
<p><strong>Site:</strong> %s</p>
<p><strong>Description:</strong> %s</p>
<p><strong>Submitted by:</strong> %s</p>
<p><strong>Status:</strong> %s</p>
<p><strong>Created:</strong> %s</p>`,
		html.EscapeString(event.TicketNumber),
		html.EscapeString(p.Site),
		html.EscapeString(p.Description),
		html.EscapeString(p.Sender),
		html.EscapeString(string(p.Status)),
		event.Timestamp.Format(timestampLayout))
}

func statusChangedChatMessage(ticketNumber string, p events.TicketStatusChangedPayload) string {
	return fmt.Sprintf(`:arrows_counterclockwise: Ticket Status Updated

Ticket: %s
Site: %s
Status: %s -> %s
Updated: %s`,
		ticketNumber, p.Site, p.OldStatus, p.NewStatus, p.UpdatedAt.Format(timestampLayout))
}

func statusChangedEmailBody(ticketNumber string, p events.TicketStatusChangedPayload) string {
	return fmt.Sprintf(`<h2>Ticket Status Updated</h2>
<p><strong>Ticket Number:</strong> %s</p>
<p><strong>Site:</strong> %s</p>
<p><strong>Status:</strong> %s &rarr; %s</p>
<p><strong>Updated:</strong> %s</p>`,
		html.EscapeString(ticketNumber),
		html.EscapeString(p.Site),
		html.EscapeString(string(p.OldStatus)),
		html.EscapeString(string(p.NewStatus)),
		p.UpdatedAt.Format(timestampLayout))
}
