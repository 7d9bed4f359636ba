package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inventory/advisor"
	"inventory/analytics"
	"inventory/database"
	"inventory/events"
	"inventory/logging"
	"inventory/metrics"
	"inventory/models"
)

// Options carries the dependencies of Handler.
type Options struct {
	Store     database.Store
	Logger    *logging.Logger
	Metrics   *metrics.Metrics
	Events    events.Publisher
	Advisor   advisor.Advisor
	JWTSecret []byte
	TokenTTL  time.Duration
}

// Handler contains all HTTP handlers.
type Handler struct {
	store     database.Store
	logger    *logging.Logger
	metrics   *metrics.Metrics
	events    events.Publisher
	advisor   advisor.Advisor
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// New creates a handler. Optional dependencies that are nil get inert defaults.
func New(opts Options) *Handler {
	h := &Handler{
		store:     opts.Store,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		events:    opts.Events,
		advisor:   opts.Advisor,
		jwtSecret: opts.JWTSecret,
		tokenTTL:  opts.TokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if h.logger == nil {
		h.logger = logging.Global()
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.events == nil {
		h.events = events.Nop{}
	}
	if h.advisor == nil {
		h.advisor = advisor.Disabled{}
	}
	if h.tokenTTL <= 0 {
		h.tokenTTL = 72 * time.Hour
	}
	return h
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
}

// validID reports whether id is a well-formed record identifier.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// buildProductView merges a product with its reorder recommendation.
func (h *Handler) buildProductView(p models.ProductWithSupplier) models.ProductView {
	history := p.SalesHistory
	if history == nil {
		history = analytics.SalesHistory{}
		p.SalesHistory = history
	}

	rec := analytics.ComputeRecommendation(history.Float64s(), p.LeadTime, p.ServiceLevel)
	status := analytics.ClassifyStock(p.Quantity, rec)
	h.metrics.ObserveRecommendation(rec, status)
	if rec.Degraded() {
		h.logger.Debug("Recommendation used default inputs",
			"product_id", p.ID,
			"service_level_defaulted", rec.ServiceLevelDefaulted,
			"lead_time_defaulted", rec.LeadTimeDefaulted,
		)
	}

	return models.ProductView{
		Product:             p.Product,
		SupplierName:        p.SupplierName,
		AvgDailyDemand:      rec.AvgDailyDemand,
		DemandStdDev:        rec.DemandStdDev,
		SafetyStock:         rec.SafetyStock,
		ReorderPoint:        rec.ReorderPoint,
		ServiceLevel:        rec.ServiceLevel,
		StockStatus:         status,
		RecommendedOrderQty: analytics.RecommendedOrderQuantity(p.Quantity, rec),
	}
}

// publishOrder emits an order event. Failures are logged, never returned.
func (h *Handler) publishOrder(ctx context.Context, order *models.Order) {
	h.metrics.ObserveOrderTransition(order.Status)
	if err := h.events.PublishOrder(ctx, events.NewOrderEvent(order)); err != nil {
		h.logger.Warn("Failed to publish order event", "order_id", order.ID, "status", order.Status, "error", err)
	}
}
