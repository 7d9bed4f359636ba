package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory/analytics"
	"inventory/logging"
	"inventory/models"
	"inventory/utils"
)

//go:embed schema.sql
var schema string

// Connect sets up the database connection pool and checks that it works.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logging.Info("Successfully connected to the database")
	return pool, nil
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates missing tables and indexes.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
	logging.Info("Database connection pool closed")
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// --- Users & suppliers ---

const insertUser = `INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`

func (s *PostgresStore) CreateStaffUser(ctx context.Context, user *models.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes concurrent registrations so only one account can become chief.
	if _, err := tx.Exec(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock users: %w", err)
	}

	var staff int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role IN ('chief', 'manager')`).Scan(&staff); err != nil {
		return fmt.Errorf("failed to count staff: %w", err)
	}
	user.Role = utils.RoleManager
	if staff == 0 {
		user.Role = utils.RoleChief
	}

	if _, err := tx.Exec(ctx, insertUser, user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt); err != nil {
		return translate(err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) CreateSupplierUser(ctx context.Context, user *models.User, supplier *models.Supplier) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertUser, user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt); err != nil {
		return translate(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO suppliers (id, user_id, name, contact_info, created_at) VALUES ($1, $2, $3, $4, $5)`,
		supplier.ID, supplier.UserID, supplier.Name, supplier.ContactInfo, supplier.CreatedAt)
	if err != nil {
		return translate(err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

const selectSupplier = `SELECT id, user_id, name, contact_info, created_at FROM suppliers`

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	var sup models.Supplier
	if err := row.Scan(&sup.ID, &sup.UserID, &sup.Name, &sup.ContactInfo, &sup.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &sup, nil
}

func (s *PostgresStore) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	return scanSupplier(s.pool.QueryRow(ctx, selectSupplier+` WHERE id = $1`, id))
}

func (s *PostgresStore) GetSupplierByUserID(ctx context.Context, userID string) (*models.Supplier, error) {
	return scanSupplier(s.pool.QueryRow(ctx, selectSupplier+` WHERE user_id = $1`, userID))
}

func (s *PostgresStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.pool.Query(ctx, selectSupplier+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]models.Supplier, 0)
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, *sup)
	}
	return suppliers, rows.Err()
}

// --- Products ---

func historyToDB(h analytics.SalesHistory) []float64 {
	if h == nil {
		return []float64{}
	}
	return []float64(h)
}

func historyFromDB(values []float64) analytics.SalesHistory {
	if values == nil {
		return analytics.SalesHistory{}
	}
	return analytics.SalesHistory(values)
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, supplier_id, name, quantity, lead_time, service_level, sales_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.SupplierID, p.Name, p.Quantity, p.LeadTime, p.ServiceLevel, historyToDB(p.SalesHistory), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", translate(err))
	}
	return nil
}

const productColumns = `p.id, p.supplier_id, p.name, p.quantity, p.lead_time, p.service_level, p.sales_history, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, extra ...interface{}) (*models.Product, error) {
	var p models.Product
	var history []float64
	dest := append([]interface{}{
		&p.ID, &p.SupplierID, &p.Name, &p.Quantity, &p.LeadTime, &p.ServiceLevel, &history, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, translate(err)
	}
	p.SalesHistory = historyFromDB(history)
	return &p, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return scanProduct(s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
}

func (s *PostgresStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductWithSupplier, int, error) {
	where := ""
	args := []interface{}{}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		where = fmt.Sprintf(" WHERE p.supplier_id = $%d", len(args))
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + `, s.name FROM products p LEFT JOIN suppliers s ON s.id = p.supplier_id` +
		where + ` ORDER BY p.created_at, p.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.ProductWithSupplier, 0)
	for rows.Next() {
		var supplierName *string
		p, err := scanProduct(rows, &supplierName)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, models.ProductWithSupplier{Product: *p, SupplierName: supplierName})
	}
	return products, total, rows.Err()
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id string, u models.ProductUpdate) error {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Quantity != nil {
		add("quantity", *u.Quantity)
	}
	if u.LeadTime != nil {
		add("lead_time", *u.LeadTime)
	}
	if u.ServiceLevel != nil {
		add("service_level", *u.ServiceLevel)
	}
	if u.SalesHistory != nil {
		add("sales_history", historyToDB(u.SalesHistory))
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Orders ---

func (s *PostgresStore) CreateOrder(ctx context.Context, o *models.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Order numbers are allocated one transaction at a time.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('orders.number'))`); err != nil {
		return fmt.Errorf("failed to lock order numbers: %w", err)
	}

	var last string
	err = tx.QueryRow(ctx,
		`SELECT number FROM orders WHERE number LIKE $1 ORDER BY length(number) DESC, number DESC LIMIT 1`,
		utils.OrderNumberPrefix(o.CreatedAt)+"%",
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to query last order number: %w", err)
	}
	o.Number = utils.NextOrderNumber(last, o.CreatedAt)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, number, product_id, product_name, quantity, supplier_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.Number, o.ProductID, o.ProductName, o.Quantity, o.SupplierID, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", translate(err))
	}
	return tx.Commit(ctx)
}

const orderColumns = `o.id, o.number, o.product_id, o.product_name, o.quantity, o.supplier_id, o.status, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, extra ...interface{}) (*models.Order, error) {
	var o models.Order
	dest := append([]interface{}{
		&o.ID, &o.Number, &o.ProductID, &o.ProductName, &o.Quantity, &o.SupplierID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
}

func (s *PostgresStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.OrderView, error) {
	conds := []string{}
	args := []interface{}{}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		conds = append(conds, fmt.Sprintf("o.supplier_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + `, s.name FROM orders o LEFT JOIN suppliers s ON s.id = o.supplier_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY o.created_at DESC, length(o.number) DESC, o.number DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.OrderView, 0)
	for rows.Next() {
		var supplierName *string
		o, err := scanOrder(rows, &supplierName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, models.OrderView{Order: *o, SupplierName: supplierName})
	}
	return orders, rows.Err()
}

func (s *PostgresStore) CountOrders(ctx context.Context, status string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE $1 = '' OR status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) TransitionOrder(ctx context.Context, id, from, to string) (*models.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `
		UPDATE orders o SET status = $3, updated_at = $4
		WHERE o.id = $1 AND o.status = $2
		RETURNING `+orderColumns,
		id, from, to, time.Now().UTC()))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := s.GetOrder(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConflict
	}
	return o, err
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE orders, products, suppliers, users`); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	return nil
}
