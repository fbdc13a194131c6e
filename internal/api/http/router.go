package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-pipeline/internal/api/http/handlers"
	"github.com/spec-kit/support-pipeline/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Messages      *handlers.MessagesHandler
	Tickets       *handlers.TicketsHandler
	Ops           *handlers.OpsHandler
	OpsMiddleware *auth.OpsMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/messages", cfg.Messages.Process)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)

	opsGroup := app.Group("/ops")
	opsGroup.Post("/login", cfg.Ops.Login)

	protected := opsGroup.Group("", cfg.OpsMiddleware.Handle)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
}
