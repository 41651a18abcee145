package workflow

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) api.Route {
	return &WorkflowApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	group := app.Group("/api/workflow", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/:caseId/steps", h.controller.ListSteps)
	group.Post("/:caseId/reconcile", h.controller.Reconcile)
}
