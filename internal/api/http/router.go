package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atendesk/helpdesk/internal/api/http/handlers"
	"github.com/atendesk/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	Users          *handlers.UsersHandler
	References     *handlers.ReferencesHandler
	Realtime       *handlers.RealtimeHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Post("/tickets/:id/assign", cfg.Tickets.Assign)
	protected.Post("/tickets/:id/messages", cfg.Tickets.AddMessage)
	protected.Post("/tickets/:id/status", cfg.Tickets.ChangeStatus)
	protected.Post("/tickets/:id/resolve", cfg.Tickets.Resolve)
	protected.Post("/tickets/:id/close", cfg.Tickets.Close)

	protected.Get("/dashboard/tickets/mine", cfg.Dashboard.ListMine)
	protected.Get("/dashboard/tickets/sector", cfg.Dashboard.ListSectorQueue)
	protected.Get("/dashboard/tickets/all", cfg.Dashboard.ListAll)
	protected.Get("/dashboard/counters", cfg.Dashboard.Counters)

	// lookups feeding the ticket form
	protected.Get("/sectors", cfg.References.ListSectors)
	protected.Get("/sectors/:id/subjects", cfg.References.SubjectsForSector)
	protected.Get("/subjects", cfg.References.ListSubjects)
	protected.Get("/statuses", cfg.References.ListStatuses)
	protected.Get("/priorities", cfg.References.ListPriorities)

	protected.Get("/ws/tickets/:id", cfg.Realtime.Upgrade, cfg.Realtime.Room())

	panel := protected.Group("/panel", auth.RequireAdmin())
	panel.Get("/users", cfg.Users.List)
	panel.Post("/users", cfg.Users.Create)
	panel.Put("/users/:id", cfg.Users.Update)
	panel.Delete("/users/:id", cfg.Users.Delete)

	panel.Post("/sectors", cfg.References.CreateSector)
	panel.Put("/sectors/:id", cfg.References.UpdateSector)
	panel.Delete("/sectors/:id", cfg.References.DeleteSector)

	panel.Post("/subjects", cfg.References.CreateSubject)
	panel.Put("/subjects/:id", cfg.References.UpdateSubject)
	panel.Delete("/subjects/:id", cfg.References.DeleteSubject)

	panel.Post("/statuses", cfg.References.CreateStatus)
	panel.Put("/statuses/:id", cfg.References.UpdateStatus)
	panel.Delete("/statuses/:id", cfg.References.DeleteStatus)

	panel.Post("/priorities", cfg.References.CreatePriority)
	panel.Put("/priorities/:id", cfg.References.UpdatePriority)
	panel.Delete("/priorities/:id", cfg.References.DeletePriority)
}
