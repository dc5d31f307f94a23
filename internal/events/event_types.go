package events

import (
	"time"

	"github.com/alnasr-it/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a ticket lifecycle event emitted by the registry.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketNumber string      `json:"ticket_number"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// TicketCreatedPayload carries the fields announced on creation.
type TicketCreatedPayload struct {
	Site        string              `json:"site"`
	Description string              `json:"description"`
	Sender      string              `json:"sender"`
	Status      domain.TicketStatus `json:"status"`
}

// TicketStatusChangedPayload carries the fields announced on a status change.
type TicketStatusChangedPayload struct {
	Site      string              `json:"site"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	UpdatedAt time.Time           `json:"updated_at"`
}
