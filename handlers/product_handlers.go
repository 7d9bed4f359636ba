package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inventory/analytics"
	"inventory/database"
	"inventory/middleware"
	"inventory/models"
	"inventory/utils"
)

// HandleListProducts lists all products merged with their reorder recommendations.
// Pagination is applied when the "page" query parameter is given.
// GET /api/v1/products
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	filter := database.ProductFilter{}
	var pagination *utils.Pagination
	if c.Query("page") != "" {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
		pagination = utils.CreatePagination(0, page, pageSize)
		filter.Limit = pagination.PageSize
		filter.Offset = pagination.Offset()
	}

	products, total, err := h.store.ListProducts(c.UserContext(), filter)
	if err != nil {
		h.logger.Error("Error fetching products", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch products")
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, h.buildProductView(p))
	}

	resp := fiber.Map{"status": "success", "data": views}
	if pagination != nil {
		resp["pagination"] = utils.CreatePagination(total, pagination.CurrentPage, pagination.PageSize)
	}
	return c.JSON(resp)
}

// HandleGetProduct returns one product merged with its reorder recommendation.
// GET /api/v1/products/:productId
func (h *Handler) HandleGetProduct(c *fiber.Ctx) error {
	view, status, message := h.loadProductView(c, c.Params("productId"))
	if status != fiber.StatusOK {
		return errorJSON(c, status, message)
	}
	return c.JSON(fiber.Map{"status": "success", "data": view})
}

func (h *Handler) loadProductView(c *fiber.Ctx, productID string) (models.ProductView, int, string) {
	if !validID(productID) {
		return models.ProductView{}, fiber.StatusBadRequest, "Invalid product ID"
	}

	ctx := c.UserContext()
	product, err := h.store.GetProduct(ctx, productID)
	if errors.Is(err, database.ErrNotFound) {
		return models.ProductView{}, fiber.StatusNotFound, "Product not found"
	}
	if err != nil {
		h.logger.Error("Error fetching product", "product_id", productID, "error", err)
		return models.ProductView{}, fiber.StatusInternalServerError, "Failed to fetch product"
	}

	joined := models.ProductWithSupplier{Product: *product}
	if product.SupplierID != nil {
		supplier, err := h.store.GetSupplier(ctx, *product.SupplierID)
		switch {
		case err == nil:
			joined.SupplierName = &supplier.Name
		case !errors.Is(err, database.ErrNotFound):
			h.logger.Error("Error fetching supplier", "supplier_id", *product.SupplierID, "error", err)
			return models.ProductView{}, fiber.StatusInternalServerError, "Failed to fetch supplier"
		}
	}
	return h.buildProductView(joined), fiber.StatusOK, ""
}

// HandleCreateProduct adds a product owned by the calling supplier.
// POST /api/v1/products
func (h *Handler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	if !req.Name.Present || req.Name.Value == nil || req.Name.Value == "" ||
		req.Quantity.Value == nil || req.LeadTime.Value == nil {
		return errorJSON(c, fiber.StatusBadRequest, "Name, quantity and lead time are required")
	}

	name, err := parseProductName(req.Name)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	quantity, err := utils.ParseNonNegative("quantity", req.Quantity.Value)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	leadTime, err := utils.ParsePositive("lead_time", req.LeadTime.Value)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	serviceLevel := h.resolveServiceLevel(req.ServiceLevel)
	history, err := req.SalesHistory.Resolve()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	supplier, status, message := h.callerSupplier(c, "Supplier account not found for this user")
	if supplier == nil {
		return errorJSON(c, status, message)
	}

	now := h.now()
	product := &models.Product{
		ID:           uuid.NewString(),
		SupplierID:   &supplier.ID,
		Name:         name,
		Quantity:     quantity,
		LeadTime:     leadTime,
		ServiceLevel: serviceLevel,
		SalesHistory: history,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreateProduct(c.UserContext(), product); err != nil {
		h.logger.Error("Error creating product", "supplier_id", supplier.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create product")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": product})
}

// HandleUpdateProduct applies a partial update to a product owned by the caller.
// PUT /api/v1/products/:productId
func (h *Handler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	product, status, message := h.ownedProduct(c)
	if product == nil {
		return errorJSON(c, status, message)
	}

	var update models.ProductUpdate
	if req.Name.Present {
		name, err := parseProductName(req.Name)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		update.Name = &name
	}
	if req.Quantity.Present {
		quantity, err := utils.ParseNonNegative("quantity", req.Quantity.Value)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		update.Quantity = &quantity
	}
	if req.LeadTime.Present {
		leadTime, err := utils.ParsePositive("lead_time", req.LeadTime.Value)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		update.LeadTime = &leadTime
	}
	if req.ServiceLevel.Present {
		level := h.resolveServiceLevel(req.ServiceLevel)
		update.ServiceLevel = &level
	}
	if req.SalesHistory.Present {
		history, err := req.SalesHistory.Resolve()
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		update.SalesHistory = history
	}

	if update.Empty() {
		return errorJSON(c, fiber.StatusBadRequest, "No valid fields provided for update")
	}

	if err := h.store.UpdateProduct(c.UserContext(), product.ID, update); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Product not found")
		}
		h.logger.Error("Error updating product", "product_id", product.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update product")
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Product updated successfully"})
}

// HandleDeleteProduct removes a product owned by the caller.
// DELETE /api/v1/products/:productId
func (h *Handler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, status, message := h.ownedProduct(c)
	if product == nil {
		return errorJSON(c, status, message)
	}

	if err := h.store.DeleteProduct(c.UserContext(), product.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Product not found")
		}
		h.logger.Error("Error deleting product", "product_id", product.ID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete product")
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Product deleted successfully"})
}

// --- Helper Functions ---

func parseProductName(f models.RawField) (string, error) {
	name, ok := f.Value.(string)
	if !ok {
		return "", &utils.ValidationError{Field: "name", Message: "Product name must be between 2 and 100 characters long"}
	}
	if err := utils.ValidateLength("name", "Product name", name, 2, 100); err != nil {
		return "", err
	}
	return name, nil
}

// resolveServiceLevel applies the lenient service level policy to a request field.
func (h *Handler) resolveServiceLevel(f models.RawField) float64 {
	if !f.Present {
		return analytics.DefaultServiceLevel
	}
	level, degraded := analytics.ResolveServiceLevel(f.Value)
	if degraded {
		h.metrics.ObserveDegradedInput("service_level")
		h.logger.Debug("Replaced invalid service level with default", "value", f.Value, "default", level)
	}
	return level
}

// callerSupplier loads the supplier record of the authenticated user.
func (h *Handler) callerSupplier(c *fiber.Ctx, notFound string) (*models.Supplier, int, string) {
	supplier, err := h.store.GetSupplierByUserID(c.UserContext(), middleware.UserID(c))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fiber.StatusNotFound, notFound
	}
	if err != nil {
		h.logger.Error("Error fetching supplier for user", "user_id", middleware.UserID(c), "error", err)
		return nil, fiber.StatusInternalServerError, "Database error"
	}
	return supplier, fiber.StatusOK, ""
}

// ownedProduct loads the product named in the route and checks that the calling
// supplier owns it.
func (h *Handler) ownedProduct(c *fiber.Ctx) (*models.Product, int, string) {
	supplier, status, message := h.callerSupplier(c, "Supplier account not found")
	if supplier == nil {
		return nil, status, message
	}

	productID := c.Params("productId")
	if !validID(productID) {
		return nil, fiber.StatusBadRequest, "Invalid product ID"
	}

	product, err := h.store.GetProduct(c.UserContext(), productID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fiber.StatusNotFound, "Product not found"
	}
	if err != nil {
		h.logger.Error("Error fetching product", "product_id", productID, "error", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch product"
	}

	if product.SupplierID == nil || *product.SupplierID != supplier.ID {
		return nil, fiber.StatusForbidden, "Access denied: You do not own this product"
	}
	return product, fiber.StatusOK, ""
}
