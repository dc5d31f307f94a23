package dto

import (
	"time"

	"github.com/alnasr-it/helpdesk/internal/domain"
)

// CreateTicketForm is the ticket creation form payload.
type CreateTicketForm struct {
	Site        string `form:"site" json:"site"`
	Description string `form:"description" json:"description"`
	Sender      string `form:"sender" json:"sender"`
}

// UpdateStatusForm is the status update form payload.
type UpdateStatusForm struct {
	Status string `form:"status" json:"status"`
}

// TicketResponse is the JSON representation of a ticket.
type TicketResponse struct {
	TicketNumber string              `json:"ticket_number"`
	Site         string              `json:"site"`
	Description  string              `json:"description"`
	Status       domain.TicketStatus `json:"status"`
	Sender       string              `json:"sender"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketNumber: t.TicketNumber,
		Site:         t.Site,
		Description:  t.Description,
		Status:       t.Status,
		Sender:       t.Sender,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
