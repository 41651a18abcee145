package rule

import (
	"github.com/gofiber/fiber/v2"
)

type RuleController struct {
	Service RuleService
}

func NewRuleController(service RuleService) *RuleController {
	return &RuleController{Service: service}
}

// CreateRule godoc
// @Summary Create a new routing rule
// @Description Create a rule mapping incident attributes to a reviewer/signer pair
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body Rule true "Rule"
// @Success 201 {object} map[string]string "Rule created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/rules [post]
func (c *RuleController) CreateRule(ctx *fiber.Ctx) error {
	var input Rule
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateRule(ctx.UserContext(), input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Rule created successfully"})
}

// ListRules godoc
// @Summary List routing rules
// @Tags rules
// @Produce json
// @Param status query string false "Filter by status (active, testing, disabled)"
// @Param category query string false "Filter by category"
// @Success 200 {array} Rule
// @Router /api/rules [get]
func (c *RuleController) ListRules(ctx *fiber.Ctx) error {
	rules, err := c.Service.ListRules(ctx.UserContext(), ctx.Query("status"), ctx.Query("category"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rules)
}

// GetRule godoc
// @Summary Get a rule by ID
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} Rule
// @Failure 404 {object} map[string]string "Rule not found"
// @Router /api/rules/{id} [get]
func (c *RuleController) GetRule(ctx *fiber.Ctx) error {
	rule, err := c.Service.GetRule(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if rule == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}
	return ctx.JSON(rule)
}

// UpdateRule godoc
// @Summary Update a rule
// @Tags rules
// @Accept json
// @Param id path string true "Rule ID"
// @Param rule body Rule true "Rule"
// @Success 200 {object} map[string]string
// @Router /api/rules/{id} [put]
func (c *RuleController) UpdateRule(ctx *fiber.Ctx) error {
	var input Rule
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateRule(ctx.UserContext(), ctx.Params("id"), input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Rule updated successfully"})
}

// ToggleStatus godoc
// @Summary Toggle a rule between active and testing
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} Rule
// @Router /api/rules/{id}/toggle [post]
func (c *RuleController) ToggleStatus(ctx *fiber.Ctx) error {
	rule, err := c.Service.ToggleStatus(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete a rule
// @Tags rules
// @Param id path string true "Rule ID"
// @Success 204 {object} nil "No Content"
// @Router /api/rules/{id} [delete]
func (c *RuleController) DeleteRule(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteRule(ctx.UserContext(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
