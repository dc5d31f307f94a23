package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alnasr-it/helpdesk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Tickets   *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes. /tickets/new is registered before the
// :number route so "new" is never treated as a ticket number.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Dashboard.Dashboard)
	app.Get("/api/stats", cfg.Dashboard.Stats)
	app.Get("/api/tickets", cfg.Tickets.ListTicketsJSON)

	app.Get("/tickets/new", cfg.Tickets.NewTicketForm)
	app.Post("/tickets/new", cfg.Tickets.CreateTicket)
	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/:number", cfg.Tickets.TicketDetail)
	app.Post("/tickets/:number/status", cfg.Tickets.UpdateStatus)
}
