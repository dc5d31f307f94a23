package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alnasr-it/helpdesk/internal/repository"
	"github.com/alnasr-it/helpdesk/internal/service"
)

const recentTicketLimit = 10

// DashboardHandler serves the landing page and the JSON stats endpoint.
type DashboardHandler struct {
	service *service.TicketService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(ticketService *service.TicketService) *DashboardHandler {
	return &DashboardHandler{service: ticketService}
}

// Dashboard GET /.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), repository.TicketFilter{})
	if err != nil {
		return err
	}
	recent := tickets
	if len(recent) > recentTicketLimit {
		recent = recent[:recentTicketLimit]
	}

	return c.Render("dashboard", fiber.Map{
		"Title":  "Dashboard",
		"Stats":  stats,
		"Recent": recent,
		"Flash":  popFlash(c),
	})
}

// Stats GET /api/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
