package rule

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RuleApi struct {
	controller *RuleController
	config     *config.Config
}

func NewRuleApi(controller *RuleController, config *config.Config) api.Route {
	return &RuleApi{
		controller: controller,
		config:     config,
	}
}

func (h *RuleApi) Setup(app *fiber.App) {
	group := app.Group("/api/rules", middleware.AuthMiddleware(h.config.SkipAuth), middleware.RequireRole("Admin"))

	group.Post("/", h.controller.CreateRule)
	group.Get("/", h.controller.ListRules)
	group.Get("/:id", h.controller.GetRule)
	group.Put("/:id", h.controller.UpdateRule)
	group.Post("/:id/toggle", h.controller.ToggleStatus)
	group.Delete("/:id", h.controller.DeleteRule)
}
