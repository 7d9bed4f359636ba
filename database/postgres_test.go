package database

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/analytics"
)

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestSchemaDefinesTables(t *testing.T) {
	for _, table := range []string{"users", "suppliers", "products", "orders"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "sales_history DOUBLE PRECISION[]")
}

func TestHistoryDBConversion(t *testing.T) {
	assert.Equal(t, []float64{}, historyToDB(nil))
	assert.Equal(t, []float64{1.5, 2.5, 3}, historyToDB(analytics.SalesHistory{1.5, 2.5, 3}))
	assert.Equal(t, analytics.SalesHistory{}, historyFromDB(nil))
	assert.Equal(t, analytics.SalesHistory{0.5, 4}, historyFromDB([]float64{0.5, 4}))
}

// TestPostgresStore_Integration runs against a real database when
// INVENTORY_TEST_DATABASE_URL is set.
func TestPostgresStore_Integration(t *testing.T) {
	url := os.Getenv("INVENTORY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("INVENTORY_TEST_DATABASE_URL not set")
	}

	ctx := t.Context()
	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	s := NewPostgresStore(pool)
	defer s.Close()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Reset(ctx))

	sup := newSupplier(t, s, "pg_"+strings.ToLower(t.Name()[:6]), "Acme Ltd")
	got, err := s.GetSupplierByUserID(ctx, sup.UserID)
	require.NoError(t, err)
	assert.Equal(t, sup.Name, got.Name)
}
