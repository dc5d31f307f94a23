package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/alnasr-it/helpdesk/internal/api/dto"
	"github.com/alnasr-it/helpdesk/internal/domain"
	"github.com/alnasr-it/helpdesk/internal/repository"
	"github.com/alnasr-it/helpdesk/internal/service"
	apperrors "github.com/alnasr-it/helpdesk/pkg/util"
)

// TicketsHandler serves the ticket pages: creation form, filtered list,
// detail view and status updates.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// NewTicketForm GET /tickets/new.
func (h *TicketsHandler) NewTicketForm(c *fiber.Ctx) error {
	return c.Render("create_ticket", fiber.Map{
		"Title": "Submit Ticket",
		"Sites": h.service.Sites().Names(),
		"Form":  dto.CreateTicketForm{},
		"Flash": popFlash(c),
	})
}

// CreateTicket POST /tickets/new.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var form dto.CreateTicketForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Site:        form.Site,
		Description: form.Description,
		Sender:      form.Sender,
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			return c.Render("create_ticket", fiber.Map{
				"Title": "Submit Ticket",
				"Sites": h.service.Sites().Names(),
				"Form":  form,
				"Error": apperrors.ToDomainError(err).Message,
			})
		}
		setFlash(c, "error", "Failed to create ticket. Please try again.")
		return c.Redirect("/tickets/new", fiber.StatusSeeOther)
	}

	setFlash(c, "success", fmt.Sprintf("Ticket %s created successfully!", ticket.TicketNumber))
	return c.Redirect("/tickets/"+ticket.TicketNumber, fiber.StatusSeeOther)
}

// parseListFilter reads the site/status/search query parameters; "all" and
// blank values mean no filtering.
func parseListFilter(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if site := c.Query("site"); site != "" && site != "all" {
		filter.Site = &site
	}
	if statusParam := c.Query("status"); statusParam != "" && statusParam != "all" {
		status := domain.TicketStatus(statusParam)
		filter.Status = &status
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	return filter
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	site := c.Query("site")
	statusParam := c.Query("status")
	search := c.Query("search")

	tickets, err := h.service.ListTickets(c.UserContext(), parseListFilter(c))
	if err != nil {
		return err
	}

	return c.Render("tickets", fiber.Map{
		"Title":         "Tickets",
		"Tickets":       tickets,
		"Sites":         h.service.Sites().Names(),
		"Statuses":      domain.Statuses(),
		"CurrentSite":   site,
		"CurrentStatus": statusParam,
		"CurrentSearch": search,
		"Flash":         popFlash(c),
	})
}

// ListTicketsJSON GET /api/tickets.
func (h *TicketsHandler) ListTicketsJSON(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext(), parseListFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TicketDetail GET /tickets/:number.
func (h *TicketsHandler) TicketDetail(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("number"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			setFlash(c, "error", "Ticket not found.")
			return c.Redirect("/tickets", fiber.StatusSeeOther)
		}
		return err
	}

	return c.Render("ticket_detail", fiber.Map{
		"Title":    "Ticket " + ticket.TicketNumber,
		"Ticket":   ticket,
		"Statuses": domain.Statuses(),
		"Flash":    popFlash(c),
	})
}

// UpdateStatus POST /tickets/:number/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	ticketNumber := c.Params("number")

	var form dto.UpdateStatusForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form payload", nil)
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), ticketNumber, domain.TicketStatus(form.Status))
	if err != nil {
		switch {
		case apperrors.IsNotFound(err):
			setFlash(c, "error", "Ticket not found.")
			return c.Redirect("/tickets", fiber.StatusSeeOther)
		case apperrors.IsValidation(err):
			setFlash(c, "error", apperrors.ToDomainError(err).Message)
		default:
			setFlash(c, "error", "Failed to update ticket.")
		}
		return c.Redirect("/tickets/"+ticketNumber, fiber.StatusSeeOther)
	}

	setFlash(c, "success", fmt.Sprintf("Ticket %s updated to %s", ticket.TicketNumber, ticket.Status))
	return c.Redirect("/tickets/"+ticket.TicketNumber, fiber.StatusSeeOther)
}
