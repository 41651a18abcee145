package audit

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) api.Route {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/audit", middleware.AuthMiddleware(h.config.SkipAuth), middleware.RequireRole("Admin"))

	group.Get("/", h.controller.ListLogs)
}
