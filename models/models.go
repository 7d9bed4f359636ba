package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"inventory/analytics"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest registers either staff (chief/manager, decided by the server) or,
// with role "supplier", a supplier account together with its company record.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
}

// --- Core Models ---

// User is an account. Role is one of chief, manager or supplier.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Supplier is the company record behind a supplier account.
type Supplier struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product is a stocked item together with its replenishment policy and daily
// sales history.
type Product struct {
	ID           string                 `json:"id"`
	SupplierID   *string                `json:"supplierId,omitempty"`
	Name         string                 `json:"name"`
	Quantity     int                    `json:"quantity"`
	LeadTime     int                    `json:"lead_time"`
	ServiceLevel float64                `json:"service_level"`
	SalesHistory analytics.SalesHistory `json:"sales_history"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// ProductWithSupplier is a product joined with its supplier's name.
type ProductWithSupplier struct {
	Product
	SupplierName *string
}

// ProductUpdate holds the validated fields of a partial product update. Nil
// fields are left unchanged.
type ProductUpdate struct {
	Name         *string
	Quantity     *int
	LeadTime     *int
	ServiceLevel *float64
	SalesHistory analytics.SalesHistory
}

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Quantity == nil && u.LeadTime == nil && u.ServiceLevel == nil && u.SalesHistory == nil
}

// ProductView is the product payload returned by the listing endpoints: the stored
// fields merged with the reorder recommendation.
type ProductView struct {
	Product
	SupplierName        *string               `json:"supplierName,omitempty"`
	AvgDailyDemand      float64               `json:"avg_daily_demand"`
	DemandStdDev        float64               `json:"demand_std_dev"`
	SafetyStock         int                   `json:"safety_stock"`
	ReorderPoint        int                   `json:"reorder_point"`
	ServiceLevel        float64               `json:"service_level"`
	StockStatus         analytics.StockStatus `json:"stock_status"`
	RecommendedOrderQty int                   `json:"recommended_order_qty"`
}

// Order statuses. An order moves from pending_chief_approval to either
// pending_supplier_approval or rejected_by_chief, and from pending_supplier_approval
// to confirmed_by_supplier or rejected_by_supplier.
const (
	OrderPendingChief      = "pending_chief_approval"
	OrderPendingSupplier   = "pending_supplier_approval"
	OrderRejectedByChief   = "rejected_by_chief"
	OrderConfirmedSupplier = "confirmed_by_supplier"
	OrderRejectedSupplier  = "rejected_by_supplier"
)

// Order is a purchase order for a product placed with a supplier.
type Order struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	SupplierID  string    `json:"supplierId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderView is an order joined with its supplier's name.
type OrderView struct {
	Order
	SupplierName *string `json:"supplierName,omitempty"`
}

type CreateOrderRequest struct {
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	SupplierID  string      `json:"supplierId"`
	Quantity    interface{} `json:"quantity"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}
