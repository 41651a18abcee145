package cases

import (
	"errors"

	"go-court/internal/features/rule"
	"go-court/internal/signcare"

	"github.com/gofiber/fiber/v2"
)

type CaseController struct {
	Service CaseService
}

func NewCaseController(service CaseService) *CaseController {
	return &CaseController{Service: service}
}

// SubmitCase godoc
// @Summary Submit an incident report
// @Description Validates the submission, assigns reviewer/signer via the rule engine, creates the e-sign request and initializes the workflow
// @Tags cases
// @Accept json
// @Produce json
// @Param case body SubmitCaseInput true "Submission"
// @Success 201 {object} Case
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 422 {object} map[string]string "No active rules"
// @Failure 502 {object} map[string]string "Provider unreachable"
// @Router /api/cases [post]
func (c *CaseController) SubmitCase(ctx *fiber.Ctx) error {
	var input SubmitCaseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.SubmitCase(ctx.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, rule.ErrNoActiveRules):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "No active routing rules configured"})
		case errors.Is(err, signcare.ErrProvider):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// ListCases godoc
// @Summary List cases
// @Tags cases
// @Produce json
// @Param status query string false "Filter by case status"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/cases [get]
func (c *CaseController) ListCases(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 20))

	items, total, err := c.Service.ListCases(ctx.UserContext(), ctx.Query("status"), page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetCase godoc
// @Summary Get a case by ID
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} Case
// @Failure 404 {object} map[string]string "Case not found"
// @Router /api/cases/{id} [get]
func (c *CaseController) GetCase(ctx *fiber.Ctx) error {
	found, err := c.Service.GetCase(ctx.UserContext(), ctx.Params("id"))
	if err != nil && !errors.Is(err, ErrCaseNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if found == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Case not found"})
	}
	return ctx.JSON(found)
}

// RefreshCase godoc
// @Summary Refresh a case from the e-signature provider
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} Case
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 502 {object} map[string]string "Provider unreachable"
// @Router /api/cases/{id}/refresh [post]
func (c *CaseController) RefreshCase(ctx *fiber.Ctx) error {
	refreshed, err := c.Service.RefreshCase(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCaseNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Case not found"})
		case errors.Is(err, signcare.ErrProvider):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return ctx.JSON(refreshed)
}

// DeleteCase godoc
// @Summary Delete a case
// @Tags cases
// @Param id path string true "Case ID"
// @Success 204 {object} nil "No Content"
// @Router /api/cases/{id} [delete]
func (c *CaseController) DeleteCase(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteCase(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Case not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
