package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnasr-it/helpdesk/internal/domain"
	"github.com/alnasr-it/helpdesk/internal/events"
)

type fakeChatSender struct {
	messages []string
	fail     error
}

func (f *fakeChatSender) Send(_ context.Context, message string) error {
	if f.fail != nil {
		return f.fail
	}
	f.messages = append(f.messages, message)
	return nil
}

type fakeEmailSender struct {
	subjects []string
	bodies   []string
	fail     error
}

func (f *fakeEmailSender) Send(_ context.Context, subject, htmlBody string) error {
	if f.fail != nil {
		return f.fail
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, htmlBody)
	return nil
}

func createdEvent() events.Event {
	return events.Event{
		ID:           "evt-1",
		Type:         events.EventTicketCreated,
		TicketNumber: "20240115K01",
		Timestamp:    time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Payload: events.TicketCreatedPayload{
			Site:        "Alkhor",
			Description: "The printer on floor two is jammed again",
			Sender:      "J. Smith",
			Status:      domain.TicketStatusOpen,
		},
	}
}

func statusChangedEvent() events.Event {
	return events.Event{
		ID:           "evt-2",
		Type:         events.EventTicketStatusChanged,
		TicketNumber: "20240115K01",
		Timestamp:    time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		Payload: events.TicketStatusChangedPayload{
			Site:      "Alkhor",
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusInProgress,
			UpdatedAt: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		},
	}
}

func TestNotificationService_TicketCreated(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	svc := NewNotificationService(dispatcher, chat, email, zap.NewNop())
	svc.RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(chat.messages) != 1 {
		t.Fatalf("expected 1 chat message, got %d", len(chat.messages))
	}
	for _, want := range []string{"20240115K01", "Alkhor", "printer on floor two", "J. Smith", "Open"} {
		if !strings.Contains(chat.messages[0], want) {
			t.Fatalf("chat message missing %q:\n%s", want, chat.messages[0])
		}
	}

	if len(email.subjects) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.subjects))
	}
	if email.subjects[0] != "New IT Support Ticket - 20240115K01" {
		t.Fatalf("unexpected subject %q", email.subjects[0])
	}
	for _, want := range []string{"20240115K01", "Alkhor", "2024-01-15 09:30"} {
		if !strings.Contains(email.bodies[0], want) {
			t.Fatalf("email body missing %q:\n%s", want, email.bodies[0])
		}
	}
}

func TestNotificationService_StatusChanged(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	chat := &fakeChatSender{}
	email := &fakeEmailSender{}
	svc := NewNotificationService(dispatcher, chat, email, zap.NewNop())
	svc.RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), statusChangedEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(chat.messages) != 1 {
		t.Fatalf("expected 1 chat message, got %d", len(chat.messages))
	}
	for _, want := range []string{"20240115K01", "Open", "In Progress", "2024-01-15 11:00"} {
		if !strings.Contains(chat.messages[0], want) {
			t.Fatalf("chat message missing %q:\n%s", want, chat.messages[0])
		}
	}
	if email.subjects[0] != "Ticket Status Updated - 20240115K01" {
		t.Fatalf("unexpected subject %q", email.subjects[0])
	}
}

func TestNotificationService_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	chat := &fakeChatSender{fail: errors.New("slack unreachable")}
	email := &fakeEmailSender{fail: errors.New("smtp refused")}
	svc := NewNotificationService(dispatcher, chat, email, zap.NewNop())
	svc.RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Fatalf("delivery failure must not propagate, got %v", err)
	}
}

func TestNotificationService_UnconfiguredSendersSkip(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, nil, nil, zap.NewNop())
	svc.RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
	if err := dispatcher.Publish(context.Background(), statusChangedEvent()); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
}
