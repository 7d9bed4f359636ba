package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inventory/database"
	"inventory/models"
)

const recentOrdersLimit = 5

// HandleDashboardSummary returns counts, recent orders and products at or below
// their reorder point.
// GET /api/v1/dashboard/summary
func (h *Handler) HandleDashboardSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	products, total, err := h.store.ListProducts(ctx, database.ProductFilter{})
	if err != nil {
		h.logger.Error("Error fetching products for dashboard", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build dashboard")
	}
	pending, err := h.store.CountOrders(ctx, models.OrderPendingChief)
	if err != nil {
		h.logger.Error("Error counting pending orders", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build dashboard")
	}
	suppliers, err := h.store.ListSuppliers(ctx)
	if err != nil {
		h.logger.Error("Error fetching suppliers for dashboard", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build dashboard")
	}
	recent, err := h.store.ListOrders(ctx, database.OrderFilter{Limit: recentOrdersLimit})
	if err != nil {
		h.logger.Error("Error fetching recent orders", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build dashboard")
	}

	summary := models.DashboardSummary{
		Products:      total,
		PendingOrders: pending,
		Suppliers:     len(suppliers),
		RecentOrders:  recent,
		LowStock:      []models.ProductView{},
	}
	if summary.RecentOrders == nil {
		summary.RecentOrders = []models.OrderView{}
	}
	for _, p := range products {
		view := h.buildProductView(p)
		if view.Quantity <= view.ReorderPoint {
			summary.LowStock = append(summary.LowStock, view)
		}
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}
