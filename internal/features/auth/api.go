package auth

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"
	"go-court/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) api.Route {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	// Public routes
	app.Post("/api/register", h.controller.Register)
	app.Post("/api/login", h.controller.Login)

	app.Get("/api/me", middleware.AuthMiddleware(h.config.SkipAuth), h.me)
}

func (h *AuthApi) me(c *fiber.Ctx) error {
	return c.JSON(c.Locals(utils.UserClaimsKey))
}
