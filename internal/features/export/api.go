package export

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	controller *ExportController
	config     *config.Config
}

func NewExportApi(controller *ExportController, config *config.Config) api.Route {
	return &ExportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ExportApi) Setup(app *fiber.App) {
	group := app.Group("/api/export", middleware.AuthMiddleware(h.config.SkipAuth), middleware.RequireRole("Admin"))

	group.Post("/registry", h.controller.ExportCompleted)
}
