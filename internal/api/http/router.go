package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/robotics-tickets/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Analytics *handlers.AnalyticsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/export", cfg.Tickets.ExportTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/save", cfg.Tickets.SaveTicket)
	tickets.Post("/:id/handover", cfg.Tickets.QuickHandover)
	tickets.Post("/:id/force-handover", cfg.Tickets.ForceHandover)
	tickets.Post("/:id/comment", cfg.Tickets.AddComment)

	app.Get("/analytics", cfg.Analytics.Get)
	app.Post("/seed", cfg.Tickets.SeedDemo)
}
