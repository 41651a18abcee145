package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{
		Service: service,
	}
}

// RunSweep godoc
// @Summary Trigger a reconcile sweep now
// @Description Reconciles every in-flight case against the e-signature provider
// @Tags cron
// @Produce json
// @Success 200 {object} SweepLog
// @Failure 500 {object} map[string]interface{}
// @Router /api/sweeps/run [post]
func (c *CronController) RunSweep(ctx *fiber.Ctx) error {
	sweep, err := c.Service.RunSweep(ctx.UserContext(), "manual")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(sweep)
}

// ListSweeps godoc
// @Summary List recent reconcile sweeps
// @Tags cron
// @Produce json
// @Param limit query int false "Max entries" default(20)
// @Success 200 {array} SweepLog
// @Router /api/sweeps [get]
func (c *CronController) ListSweeps(ctx *fiber.Ctx) error {
	sweeps, err := c.Service.ListSweeps(ctx.UserContext(), int64(ctx.QueryInt("limit", 20)))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(sweeps)
}
