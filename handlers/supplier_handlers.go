package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inventory/database"
	"inventory/models"
)

// HandleListSuppliers lists all supplier companies.
// GET /api/v1/suppliers
func (h *Handler) HandleListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.store.ListSuppliers(c.UserContext())
	if err != nil {
		h.logger.Error("Error fetching suppliers", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch suppliers")
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	return c.JSON(fiber.Map{"status": "success", "data": suppliers})
}

// HandleSupplierProducts lists the calling supplier's own products without analytics.
// GET /api/v1/supplier/products
func (h *Handler) HandleSupplierProducts(c *fiber.Ctx) error {
	supplier, status, message := h.callerSupplier(c, "Supplier account not found")
	if supplier == nil {
		return errorJSON(c, status, message)
	}

	rows, _, err := h.store.ListProducts(c.UserContext(), database.ProductFilter{SupplierID: supplier.ID})
	if err != nil {
		h.logger.Error("Error fetching supplier products", "supplier_id", supplier.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch products")
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Product)
	}
	return c.JSON(fiber.Map{"status": "success", "data": products})
}

// HandleSupplierOrders lists orders awaiting the calling supplier's confirmation.
// GET /api/v1/supplier/orders
func (h *Handler) HandleSupplierOrders(c *fiber.Ctx) error {
	supplier, status, message := h.callerSupplier(c, "Supplier account not found")
	if supplier == nil {
		return errorJSON(c, status, message)
	}

	orders, err := h.store.ListOrders(c.UserContext(), database.OrderFilter{
		SupplierID: supplier.ID,
		Status:     models.OrderPendingSupplier,
	})
	if err != nil {
		h.logger.Error("Error fetching supplier orders", "supplier_id", supplier.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch orders")
	}
	if orders == nil {
		orders = []models.OrderView{}
	}
	return c.JSON(fiber.Map{"status": "success", "data": orders})
}

// HandleConfirmOrder confirms an order placed with the calling supplier.
// PUT /api/v1/supplier/orders/:orderId/confirm
func (h *Handler) HandleConfirmOrder(c *fiber.Ctx) error {
	return h.supplierDecision(c, models.OrderConfirmedSupplier, "Order confirmed")
}

// HandleRejectOrder rejects an order placed with the calling supplier.
// PUT /api/v1/supplier/orders/:orderId/reject
func (h *Handler) HandleRejectOrder(c *fiber.Ctx) error {
	return h.supplierDecision(c, models.OrderRejectedSupplier, "Order rejected")
}

func (h *Handler) supplierDecision(c *fiber.Ctx, to, message string) error {
	supplier, status, msg := h.callerSupplier(c, "Supplier account not found")
	if supplier == nil {
		return errorJSON(c, status, msg)
	}

	orderID := c.Params("orderId")
	if !validID(orderID) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid order ID")
	}

	ctx := c.UserContext()
	order, err := h.store.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		h.logger.Error("Error fetching order", "order_id", orderID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch order")
	}
	if order.SupplierID != supplier.ID {
		return errorJSON(c, fiber.StatusForbidden, "Access denied: This order is not addressed to you")
	}

	updated, err := h.store.TransitionOrder(ctx, orderID, models.OrderPendingSupplier, to)
	switch {
	case errors.Is(err, database.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, "Order is not awaiting supplier approval")
	case errors.Is(err, database.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Order not found")
	case err != nil:
		h.logger.Error("Error updating order status", "order_id", orderID, "status", to, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update order")
	}

	h.publishOrder(ctx, updated)
	return c.JSON(fiber.Map{"status": "success", "message": message, "data": updated})
}
