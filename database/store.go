// Package database persists users, suppliers, products and orders. Handlers depend
// on the Store interface; Postgres and in-memory implementations are provided.
package database

import (
	"context"
	"errors"
	"fmt"

	"inventory/config"
	"inventory/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field (username) is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict is returned when an order is not in the status a transition expects.
	ErrConflict = errors.New("order status conflict")
)

// ProductFilter narrows ListProducts. Zero values mean no restriction; a Limit of
// 0 returns every match.
type ProductFilter struct {
	SupplierID string
	Limit      int
	Offset     int
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	SupplierID string
	Status     string
	Limit      int
}

// Store is the persistence boundary of the API layer.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	// CreateStaffUser inserts a staff account. The first staff account becomes
	// chief, later ones manager; the chosen role is written back to user.Role.
	CreateStaffUser(ctx context.Context, user *models.User) error
	// CreateSupplierUser inserts a supplier account and its company record atomically.
	CreateSupplierUser(ctx context.Context, user *models.User, supplier *models.Supplier) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	GetSupplierByUserID(ctx context.Context, userID string) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProducts returns one page of products joined with supplier names and the
	// total number of matches.
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductWithSupplier, int, error)
	UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) error
	DeleteProduct(ctx context.Context, id string) error

	// CreateOrder inserts an order and assigns its sequential order number.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.OrderView, error)
	CountOrders(ctx context.Context, status string) (int, error)
	// TransitionOrder moves an order from one status to another. It returns
	// ErrConflict when the order's current status is not from.
	TransitionOrder(ctx context.Context, id, from, to string) (*models.Order, error)

	// Reset deletes all orders, products, suppliers and users.
	Reset(ctx context.Context) error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		pool, err := Connect(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
