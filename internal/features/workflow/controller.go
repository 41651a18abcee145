package workflow

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

// ListSteps godoc
// @Summary List workflow steps for a case
// @Tags workflow
// @Produce json
// @Param caseId path string true "Case ID"
// @Success 200 {array} WorkflowStep
// @Failure 400 {object} map[string]string "Invalid case id"
// @Router /api/workflow/{caseId}/steps [get]
func (c *WorkflowController) ListSteps(ctx *fiber.Ctx) error {
	caseID, err := primitive.ObjectIDFromHex(ctx.Params("caseId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid case id"})
	}

	steps, err := c.Service.ListSteps(ctx.UserContext(), caseID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(steps)
}

// Reconcile godoc
// @Summary Reconcile a case against the e-signature provider
// @Description Fetch current provider status and advance review, sign and filing steps accordingly
// @Tags workflow
// @Produce json
// @Param caseId path string true "Case ID"
// @Param caseNumber query string true "Case number"
// @Success 200 {object} map[string]string "Reconciled"
// @Failure 400 {object} map[string]string "Invalid case id"
// @Failure 502 {object} map[string]string "Provider unreachable"
// @Router /api/workflow/{caseId}/reconcile [post]
func (c *WorkflowController) Reconcile(ctx *fiber.Ctx) error {
	caseID, err := primitive.ObjectIDFromHex(ctx.Params("caseId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid case id"})
	}

	caseNumber := ctx.Query("caseNumber")
	if caseNumber == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "caseNumber is required"})
	}

	if err := c.Service.Reconcile(ctx.UserContext(), caseID, caseNumber); err != nil {
		if err == ErrCaseNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Case not found"})
		}
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Reconciled"})
}
