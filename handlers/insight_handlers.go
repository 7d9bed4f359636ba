package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inventory/advisor"
	"inventory/models"
)

// HandleProductInsights asks the advisor to explain a product's reorder recommendation.
// GET /api/v1/products/:productId/insights
func (h *Handler) HandleProductInsights(c *fiber.Ctx) error {
	view, status, message := h.loadProductView(c, c.Params("productId"))
	if status != fiber.StatusOK {
		return errorJSON(c, status, message)
	}

	analysis, err := h.advisor.Explain(c.UserContext(), view)
	if errors.Is(err, advisor.ErrDisabled) {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Insights are not configured")
	}
	if err != nil {
		h.logger.Error("Error generating insights", "product_id", view.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate insights")
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   models.InsightResponse{ProductID: view.ID, Analysis: analysis},
	})
}
