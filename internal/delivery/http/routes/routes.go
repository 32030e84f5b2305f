package routes

import (
	"github.com/gofiber/fiber/v3"

	"errandgo/internal/delivery/http/handler"
	"errandgo/internal/ws"
)

// Registry owns the full route surface: public pages, per-role auth entry
// points, guarded dashboards and their event streams, and the catch-all.
type Registry struct {
	home            *handler.HomeHandler
	auth            *handler.AuthHandler
	senderDashboard *handler.DashboardHandler
	runnerDashboard *handler.DashboardHandler
	senderEvents    *ws.SessionEventsHandler
	runnerEvents    *ws.SessionEventsHandler
}

func NewRegistry(
	home *handler.HomeHandler,
	auth *handler.AuthHandler,
	senderDashboard, runnerDashboard *handler.DashboardHandler,
	senderEvents, runnerEvents *ws.SessionEventsHandler,
) *Registry {
	return &Registry{
		home:            home,
		auth:            auth,
		senderDashboard: senderDashboard,
		runnerDashboard: runnerDashboard,
		senderEvents:    senderEvents,
		runnerEvents:    runnerEvents,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.home.RegisterRoutes(app)
	r.auth.RegisterRoutes(app)
	r.senderDashboard.RegisterRoutes(app)
	r.runnerDashboard.RegisterRoutes(app)
	r.senderEvents.RegisterRoutes(app)
	r.runnerEvents.RegisterRoutes(app)

	// Must stay last.
	r.home.RegisterNotFound(app)
}
