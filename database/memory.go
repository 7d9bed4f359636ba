package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory/analytics"
	"inventory/models"
	"inventory/utils"
)

// MemoryStore is a Store kept in process memory. It backs the "memory" driver
// used for demos and tests; data is lost on exit.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	suppliers map[string]models.Supplier
	products  map[string]models.Product
	orders    map[string]models.Order
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.users = make(map[string]models.User)
	s.suppliers = make(map[string]models.Supplier)
	s.products = make(map[string]models.Product)
	s.orders = make(map[string]models.Order)
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() {}

func (s *MemoryStore) usernameTaken(username string) bool {
	for _, u := range s.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateStaffUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(user.Username) {
		return ErrDuplicate
	}
	user.Role = utils.RoleChief
	for _, u := range s.users {
		if utils.IsStaffRole(u.Role) {
			user.Role = utils.RoleManager
			break
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) CreateSupplierUser(ctx context.Context, user *models.User, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(user.Username) {
		return ErrDuplicate
	}
	s.users[user.ID] = *user
	s.suppliers[supplier.ID] = *supplier
	return nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sup, nil
}

func (s *MemoryStore) GetSupplierByUserID(ctx context.Context, userID string) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sup := range s.suppliers {
		if sup.UserID == userID {
			return &sup, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]models.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		suppliers = append(suppliers, sup)
	}
	sort.Slice(suppliers, func(i, j int) bool {
		return before(suppliers[i].CreatedAt, suppliers[i].ID, suppliers[j].CreatedAt, suppliers[j].ID)
	})
	return suppliers, nil
}

func before(t1 time.Time, id1 string, t2 time.Time, id2 string) bool {
	if !t1.Equal(t2) {
		return t1.Before(t2)
	}
	return id1 < id2
}

func cloneHistory(h analytics.SalesHistory) analytics.SalesHistory {
	out := make(analytics.SalesHistory, len(h))
	copy(out, h)
	return out
}

func cloneProduct(p models.Product) models.Product {
	p.SalesHistory = cloneHistory(p.SalesHistory)
	if p.SupplierID != nil {
		id := *p.SupplierID
		p.SupplierID = &id
	}
	return p
}

func (s *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductWithSupplier, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.ProductWithSupplier, 0, len(s.products))
	for _, p := range s.products {
		if filter.SupplierID != "" && (p.SupplierID == nil || *p.SupplierID != filter.SupplierID) {
			continue
		}
		view := models.ProductWithSupplier{Product: cloneProduct(p)}
		if p.SupplierID != nil {
			if sup, ok := s.suppliers[*p.SupplierID]; ok {
				name := sup.Name
				view.SupplierName = &name
			}
		}
		matches = append(matches, view)
	}
	sort.Slice(matches, func(i, j int) bool {
		return before(matches[i].CreatedAt, matches[i].ID, matches[j].CreatedAt, matches[j].ID)
	})

	total := len(matches)
	if filter.Limit > 0 {
		start := min(filter.Offset, total)
		end := min(start+filter.Limit, total)
		matches = matches[start:end]
	}
	return matches, total, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id string, u models.ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.LeadTime != nil {
		p.LeadTime = *u.LeadTime
	}
	if u.ServiceLevel != nil {
		p.ServiceLevel = *u.ServiceLevel
	}
	if u.SalesHistory != nil {
		p.SalesHistory = cloneHistory(u.SalesHistory)
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := utils.OrderNumberPrefix(order.CreatedAt)
	last := ""
	for _, o := range s.orders {
		if strings.HasPrefix(o.Number, prefix) && utils.OrderNumberLess(last, o.Number) {
			last = o.Number
		}
	}
	order.Number = utils.NextOrderNumber(last, order.CreatedAt)
	s.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.OrderView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.OrderView, 0)
	for _, o := range s.orders {
		if filter.SupplierID != "" && o.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		view := models.OrderView{Order: o}
		if sup, ok := s.suppliers[o.SupplierID]; ok {
			name := sup.Name
			view.SupplierName = &name
		}
		orders = append(orders, view)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return utils.OrderNumberLess(orders[j].Number, orders[i].Number)
	})
	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (s *MemoryStore) CountOrders(ctx context.Context, status string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) TransitionOrder(ctx context.Context, id, from, to string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != from {
		return nil, ErrConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return &o, nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return nil
}
