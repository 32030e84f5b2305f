package handler

import (
	"github.com/gofiber/fiber/v3"

	"errandgo/internal/dashboard"
	"errandgo/internal/delivery/http/middleware"
	"errandgo/internal/domain/profile"
	"errandgo/internal/pkg/response"
)

// DashboardHandler serves one role's dashboard behind its session guard.
// The listings are the static sample catalog filtered in memory by the
// query parameters the dashboard search box sends.
type DashboardHandler struct {
	role    profile.Role
	guard   *middleware.GuardMiddleware
	catalog *dashboard.Catalog
}

func NewDashboardHandler(role profile.Role, guardMw *middleware.GuardMiddleware, catalog *dashboard.Catalog) *DashboardHandler {
	return &DashboardHandler{role: role, guard: guardMw, catalog: catalog}
}

func (h *DashboardHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get(h.role.DashboardRoute(), h.show, h.guard.Middleware())
}

func (h *DashboardHandler) show(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "", nil, nil)
	}

	errands := h.catalog.ForRole(h.role, dashboard.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	})

	data := map[string]any{
		"user":    user,
		"errands": errands,
	}
	if h.role == profile.RoleRunner {
		data["applications"] = h.catalog.Applications()
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
