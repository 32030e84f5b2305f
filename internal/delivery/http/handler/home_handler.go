package handler

import (
	"github.com/gofiber/fiber/v3"

	"errandgo/internal/domain/profile"
	"errandgo/internal/pkg/response"
)

// HomeHandler serves the public surface: the landing route, health, and the
// catch-all 404.
type HomeHandler struct {
	appName string
}

func NewHomeHandler(appName string) *HomeHandler {
	return &HomeHandler{appName: appName}
}

func (h *HomeHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get(profile.HomeRoute, h.home)
	app.Get("/health", h.health)
}

// RegisterNotFound installs the catch-all; it must be registered after every
// other route.
func (h *HomeHandler) RegisterNotFound(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(func(c fiber.Ctx) error {
		return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, map[string]any{
			"redirect_to": profile.HomeRoute,
		})
	})
}

func (h *HomeHandler) home(c fiber.Ctx) error {
	data := map[string]any{
		"app":  h.appName,
		"city": "Akure",
		"roles": []profile.Role{
			profile.RoleSender,
			profile.RoleRunner,
		},
		"signup_routes": []string{
			profile.RoleSender.SignupRoute(),
			profile.RoleRunner.SignupRoute(),
		},
		"login_routes": []string{
			profile.RoleSender.LoginRoute(),
			profile.RoleRunner.LoginRoute(),
		},
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *HomeHandler) health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
