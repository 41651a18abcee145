package cases

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CaseApi struct {
	controller *CaseController
	config     *config.Config
}

func NewCaseApi(controller *CaseController, config *config.Config) api.Route {
	return &CaseApi{
		controller: controller,
		config:     config,
	}
}

func (h *CaseApi) Setup(app *fiber.App) {
	group := app.Group("/api/cases", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.SubmitCase)
	group.Get("/", h.controller.ListCases)
	group.Get("/:id", h.controller.GetCase)
	group.Post("/:id/refresh", h.controller.RefreshCase)
	group.Delete("/:id", middleware.RequireRole("Admin"), h.controller.DeleteCase)
}
