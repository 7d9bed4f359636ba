package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"inventory/handlers"
	"inventory/metrics"
	"inventory/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, jwtSecret []byte, m *metrics.Metrics) {
	// --- Service Routes ---
	app.Get("/health", h.HandleHealth)
	app.Get("/version", h.HandleVersion)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	api := app.Group("/api/v1")
	authenticated := middleware.JWTMiddleware(jwtSecret)

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)

	// --- Product Routes ---
	products := api.Group("/products", authenticated)
	products.Get("/", h.HandleListProducts)
	products.Get("/:productId", h.HandleGetProduct)
	products.Get("/:productId/insights", middleware.StaffRequired, h.HandleProductInsights)
	products.Post("/", middleware.SupplierRequired, h.HandleCreateProduct)
	products.Put("/:productId", middleware.SupplierRequired, h.HandleUpdateProduct)
	products.Delete("/:productId", middleware.SupplierRequired, h.HandleDeleteProduct)

	api.Get("/suppliers", authenticated, h.HandleListSuppliers)

	// --- Staff Routes ---
	orders := api.Group("/orders", authenticated, middleware.StaffRequired)
	orders.Post("/", h.HandleCreateOrder)
	orders.Get("/", h.HandleListOrders)
	orders.Put("/:orderId/status", middleware.ChiefRequired, h.HandleUpdateOrderStatus)

	api.Get("/dashboard/summary", authenticated, middleware.StaffRequired, h.HandleDashboardSummary)

	// --- Supplier Portal Routes ---
	supplier := api.Group("/supplier", authenticated, middleware.SupplierRequired)
	supplier.Get("/products", h.HandleSupplierProducts)
	supplier.Get("/orders", h.HandleSupplierOrders)
	supplier.Put("/orders/:orderId/confirm", h.HandleConfirmOrder)
	supplier.Put("/orders/:orderId/reject", h.HandleRejectOrder)
}
