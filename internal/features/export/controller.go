package export

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	Service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{Service: service}
}

// ExportCompleted godoc
// @Summary Export completed filings to the county registry
// @Tags export
// @Produce json
// @Success 200 {object} ExportResult
// @Failure 503 {object} map[string]string "Registry not configured"
// @Router /api/export/registry [post]
func (c *ExportController) ExportCompleted(ctx *fiber.Ctx) error {
	result, err := c.Service.ExportCompleted(ctx.UserContext())
	if err != nil {
		if errors.Is(err, ErrRegistryUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}
