package cron_feature

import (
	"go-court/internal/common/api"
	"go-court/internal/config"
	"go-court/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	cronController *CronController
	config         *config.Config
}

func NewCronApi(
	cronController *CronController,
	config *config.Config,
) api.Route {
	return &CronApi{
		cronController: cronController,
		config:         config,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	sweeps := app.Group("/api/sweeps", middleware.AuthMiddleware(h.config.SkipAuth), middleware.RequireRole("Admin"))

	sweeps.Get("/", h.cronController.ListSweeps)
	sweeps.Post("/run", h.cronController.RunSweep)
}
