package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inventory/database"
	"inventory/models"
	"inventory/utils"
)

// HandleCreateOrder places a purchase order that waits for the chief's approval.
// POST /api/v1/orders
func (h *Handler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductID == "" || req.ProductName == "" || req.SupplierID == "" || req.Quantity == nil {
		return errorJSON(c, fiber.StatusBadRequest, "productId, productName, quantity and supplierId are required")
	}
	quantity, err := utils.ParsePositive("quantity", req.Quantity)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	if !validID(req.ProductID) || !validID(req.SupplierID) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid product or supplier ID")
	}

	ctx := c.UserContext()
	if _, err := h.store.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Product not found")
		}
		h.logger.Error("Error fetching product", "product_id", req.ProductID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create order")
	}
	if _, err := h.store.GetSupplier(ctx, req.SupplierID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Supplier not found")
		}
		h.logger.Error("Error fetching supplier", "supplier_id", req.SupplierID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create order")
	}

	now := h.now()
	order := &models.Order{
		ID:          uuid.NewString(),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    quantity,
		SupplierID:  req.SupplierID,
		Status:      models.OrderPendingChief,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateOrder(ctx, order); err != nil {
		h.logger.Error("Error creating order", "product_id", req.ProductID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create order")
	}

	h.publishOrder(ctx, order)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Order created and awaits chief approval",
		"data":    order,
	})
}

// HandleListOrders lists all orders, newest first.
// GET /api/v1/orders
func (h *Handler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.store.ListOrders(c.UserContext(), database.OrderFilter{Status: c.Query("status")})
	if err != nil {
		h.logger.Error("Error fetching orders", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch orders")
	}
	if orders == nil {
		orders = []models.OrderView{}
	}
	return c.JSON(fiber.Map{"status": "success", "data": orders})
}

// HandleUpdateOrderStatus records the chief's decision on a pending order.
// PUT /api/v1/orders/:orderId/status
func (h *Handler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	if !validID(orderID) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid order ID")
	}

	var req models.OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var to string
	switch req.Status {
	case "approved":
		to = models.OrderPendingSupplier
	case "rejected":
		to = models.OrderRejectedByChief
	default:
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status update")
	}

	ctx := c.UserContext()
	order, err := h.store.TransitionOrder(ctx, orderID, models.OrderPendingChief, to)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Order not found")
	case errors.Is(err, database.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, "Order is not awaiting chief approval")
	case err != nil:
		h.logger.Error("Error updating order status", "order_id", orderID, "status", to, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update order")
	}

	h.publishOrder(ctx, order)
	return c.JSON(fiber.Map{"status": "success", "message": "Order status updated", "data": order})
}
