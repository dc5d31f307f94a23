package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Statuses lists every valid status in display order.
func Statuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusResolved,
		TicketStatusClosed,
	}
}

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// DefaultSender is recorded when a reporter leaves the sender field blank.
const DefaultSender = "Anonymous"

// Field length bounds enforced at creation, counted in characters.
const (
	DescriptionMinLen = 10
	DescriptionMaxLen = 1000
	SenderMaxLen      = 100
)

// Ticket is a single reported issue. TicketNumber, Site, Description and
// Sender are immutable after creation; only Status and UpdatedAt change.
type Ticket struct {
	ID           int64
	TicketNumber string
	Site         string
	Description  string
	Status       TicketStatus
	Sender       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
