package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/analytics"
	"inventory/config"
	"inventory/models"
	"inventory/utils"
)

func newSupplier(t *testing.T, s Store, username, name string) *models.Supplier {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Username: username, Role: utils.RoleSupplier, CreatedAt: time.Now()}
	sup := &models.Supplier{ID: uuid.NewString(), UserID: user.ID, Name: name, ContactInfo: "contact@example.com", CreatedAt: time.Now()}
	require.NoError(t, s.CreateSupplierUser(context.Background(), user, sup))
	return sup
}

func TestMemoryStore_FirstStaffUserIsChief(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &models.User{ID: uuid.NewString(), Username: "alice"}
	second := &models.User{ID: uuid.NewString(), Username: "bob"}
	require.NoError(t, s.CreateStaffUser(ctx, first))
	require.NoError(t, s.CreateStaffUser(ctx, second))

	assert.Equal(t, utils.RoleChief, first.Role)
	assert.Equal(t, utils.RoleManager, second.Role)

	dup := &models.User{ID: uuid.NewString(), Username: "alice"}
	assert.ErrorIs(t, s.CreateStaffUser(ctx, dup), ErrDuplicate)
}

func TestMemoryStore_ConcurrentStaffRegistrationHasOneChief(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := &models.User{ID: uuid.NewString(), Username: uuid.NewString()[:12]}
			_ = s.CreateStaffUser(ctx, u)
		}()
	}
	wg.Wait()

	chiefs := 0
	for _, u := range s.users {
		if u.Role == utils.RoleChief {
			chiefs++
		}
	}
	assert.Equal(t, 1, chiefs)
}

func TestMemoryStore_SupplierUserNotStaff(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sup := newSupplier(t, s, "acme", "Acme Ltd")

	staff := &models.User{ID: uuid.NewString(), Username: "carol"}
	require.NoError(t, s.CreateStaffUser(ctx, staff))
	assert.Equal(t, utils.RoleChief, staff.Role)

	got, err := s.GetSupplierByUserID(ctx, sup.UserID)
	require.NoError(t, err)
	assert.Equal(t, sup.ID, got.ID)

	_, err = s.GetSupplier(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sup := newSupplier(t, s, "acme", "Acme Ltd")

	p := &models.Product{
		ID:           uuid.NewString(),
		SupplierID:   &sup.ID,
		Name:         "Sliced bread",
		Quantity:     12,
		LeadTime:     2,
		ServiceLevel: 0.95,
		SalesHistory: analytics.SalesHistory{10, 12, 9},
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateProduct(ctx, p))

	p.SalesHistory[0] = 99
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, analytics.SalesHistory{10, 12, 9}, got.SalesHistory)

	qty := 40
	require.NoError(t, s.UpdateProduct(ctx, p.ID, models.ProductUpdate{Quantity: &qty, SalesHistory: analytics.SalesHistory{}}))
	got, err = s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Quantity)
	assert.Empty(t, got.SalesHistory)
	assert.Equal(t, "Sliced bread", got.Name)

	list, total, err := s.ListProducts(ctx, ProductFilter{SupplierID: sup.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].SupplierName)
	assert.Equal(t, "Acme Ltd", *list[0].SupplierName)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), ErrNotFound)
	assert.ErrorIs(t, s.UpdateProduct(ctx, p.ID, models.ProductUpdate{Quantity: &qty}), ErrNotFound)
}

func TestMemoryStore_ListProductsPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateProduct(ctx, &models.Product{
			ID:        uuid.NewString(),
			Name:      string(rune('A' + i)),
			LeadTime:  1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := s.ListProducts(ctx, ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0].Name)
	assert.Equal(t, "D", page[1].Name)

	page, _, err = s.ListProducts(ctx, ProductFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStore_OrderWorkflow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sup := newSupplier(t, s, "acme", "Acme Ltd")
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	var orders []*models.Order
	for i := 0; i < 3; i++ {
		o := &models.Order{
			ID:         uuid.NewString(),
			ProductID:  uuid.NewString(),
			Quantity:   5,
			SupplierID: sup.ID,
			Status:     models.OrderPendingChief,
			CreatedAt:  now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.CreateOrder(ctx, o))
		orders = append(orders, o)
	}
	assert.Equal(t, "PO-2026-0001", orders[0].Number)
	assert.Equal(t, "PO-2026-0003", orders[2].Number)

	list, err := s.ListOrders(ctx, OrderFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, orders[2].ID, list[0].ID)
	require.NotNil(t, list[0].SupplierName)

	updated, err := s.TransitionOrder(ctx, orders[0].ID, models.OrderPendingChief, models.OrderPendingSupplier)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPendingSupplier, updated.Status)

	_, err = s.TransitionOrder(ctx, orders[0].ID, models.OrderPendingChief, models.OrderRejectedByChief)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.TransitionOrder(ctx, uuid.NewString(), models.OrderPendingChief, models.OrderRejectedByChief)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := s.CountOrders(ctx, models.OrderPendingChief)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	bySupplier, err := s.ListOrders(ctx, OrderFilter{SupplierID: sup.ID, Status: models.OrderPendingSupplier})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, orders[0].ID, bySupplier[0].ID)
}

func TestMemoryStore_OrderNumberGrowsPastFourDigits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sup := newSupplier(t, s, "acme", "Acme Ltd")
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	for _, number := range []string{"PO-2026-9998", "PO-2026-9999", "PO-2026-10000"} {
		id := uuid.NewString()
		s.orders[id] = models.Order{ID: id, Number: number, Quantity: 1, SupplierID: sup.ID, Status: models.OrderPendingChief, CreatedAt: now}
	}

	o := &models.Order{
		ID:         uuid.NewString(),
		ProductID:  uuid.NewString(),
		Quantity:   5,
		SupplierID: sup.ID,
		Status:     models.OrderPendingChief,
		CreatedAt:  now,
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	assert.Equal(t, "PO-2026-10001", o.Number)

	list, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "PO-2026-10001", list[0].Number)
	assert.Equal(t, "PO-2026-10000", list[1].Number)
	assert.Equal(t, "PO-2026-9999", list[2].Number)
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	newSupplier(t, s, "acme", "Acme Ltd")
	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: uuid.NewString(), Name: "x", LeadTime: 1}))

	require.NoError(t, s.Reset(ctx))

	suppliers, err := s.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
	_, err = s.GetUserByUsername(ctx, "acme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
	s.Close()
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mongo"})
	assert.Error(t, err)
}
