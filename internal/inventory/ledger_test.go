package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  quantity_available INTEGER,
  is_out_of_stock INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 3,
  created_at DATETIME,
  updated_at DATETIME
);`
	variants := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  label TEXT NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, label)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(variants).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM product_variants")
		db.Exec("DELETE FROM products")
	})

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, qty *int, threshold int) *models.Product {
	t.Helper()

	p := &models.Product{
		ID:                uuid.New(),
		SellerID:          uuid.New(),
		Title:             "Ceramic mug",
		PriceCents:        1500,
		QuantityAvailable: qty,
		LowStockThreshold: threshold,
	}
	require.NoError(t, db.Exec(`
		INSERT INTO products (id, seller_id, title, price_cents, quantity_available, is_out_of_stock, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, p.ID, p.SellerID, p.Title, p.PriceCents, p.QuantityAvailable, p.LowStockThreshold).Error)
	return p
}

func seedVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, label string, qty int) {
	t.Helper()
	require.NoError(t, db.Exec(`
		INSERT INTO product_variants (id, product_id, label, quantity_available)
		VALUES (?, ?, ?, ?)
	`, uuid.New(), productID, label, qty).Error)
}

func intPtr(v int) *int { return &v }

func TestDecrementProductHappyPath(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(10), 3)

	res, err := ledger.Decrement(context.Background(), db, product, "", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Remaining)
	assert.False(t, res.LowStock)
	assert.False(t, res.OutOfStock)
}

// Competing checkouts are exercised serially here because the sqlite test
// driver allows a single writer. Under Postgres the single conditional UPDATE
// takes a row lock, so the same quantity_available >= qty guard holds for
// concurrent writers without extra application-side locking.
func TestDecrementProductRejectsOversell(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(2), 3)

	_, err := ledger.Decrement(context.Background(), db, product, "", 5)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, details["available"])

	// Stock untouched after the failed attempt.
	var remaining int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&remaining).Error)
	assert.Equal(t, 2, remaining)
}

func TestDecrementProductHonorsOutOfStockFlag(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(5), 3)

	// The flag can be raised out of band, e.g. the seller pausing the
	// listing while shelf stock remains. Decrements must respect it.
	require.NoError(t, db.Exec(`UPDATE products SET is_out_of_stock = 1 WHERE id = ?`, product.ID).Error)

	_, err := ledger.Decrement(context.Background(), db, product, "", 1)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0, details["available"])

	var remaining int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&remaining).Error)
	assert.Equal(t, 5, remaining)
}

func TestDecrementProductExactlyToZeroMarksOutOfStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(3), 3)

	res, err := ledger.Decrement(context.Background(), db, product, "", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.OutOfStock)

	var out bool
	require.NoError(t, db.Raw(`SELECT is_out_of_stock FROM products WHERE id = ?`, product.ID).Scan(&out).Error)
	assert.True(t, out)

	_, err = ledger.Decrement(context.Background(), db, product, "", 1)
	require.Error(t, err)
}

func TestDecrementProductLowStockFlag(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(5), 3)

	res, err := ledger.Decrement(context.Background(), db, product, "", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
	assert.True(t, res.LowStock)
}

func TestDecrementUnmanagedProductIsNoop(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, nil, 3)

	res, err := ledger.Decrement(context.Background(), db, product, "", 100)
	require.NoError(t, err)
	assert.True(t, res.Unmanaged)
}

func TestDecrementVariantRequiresLabel(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(10), 3)
	seedVariant(t, db, product.ID, "M", 5)
	product.Variants = []models.ProductVariant{{Label: "M", QuantityAvailable: 5}}

	_, err := ledger.Decrement(context.Background(), db, product, "", 1)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestDecrementVariantUnknownLabel(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(5), 3)
	seedVariant(t, db, product.ID, "M", 5)
	product.Variants = []models.ProductVariant{{Label: "M", QuantityAvailable: 5}}

	_, err := ledger.Decrement(context.Background(), db, product, "XL", 1)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "XL", details["variant"])
}

func TestDecrementVariantTracksAggregate(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(8), 3)
	seedVariant(t, db, product.ID, "M", 5)
	seedVariant(t, db, product.ID, "L", 3)
	product.Variants = []models.ProductVariant{
		{Label: "M", QuantityAvailable: 5},
		{Label: "L", QuantityAvailable: 3},
	}

	res, err := ledger.Decrement(context.Background(), db, product, "L", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)
	assert.False(t, res.OutOfStock) // M still has stock

	var aggregate int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&aggregate).Error)
	assert.Equal(t, 5, aggregate)

	// Draining the last variant flips the product flag.
	_, err = ledger.Decrement(context.Background(), db, product, "M", 5)
	require.NoError(t, err)

	var out bool
	require.NoError(t, db.Raw(`SELECT is_out_of_stock FROM products WHERE id = ?`, product.ID).Scan(&out).Error)
	assert.True(t, out)
}

func TestDecrementVariantOversell(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(2), 3)
	seedVariant(t, db, product.ID, "M", 2)
	product.Variants = []models.ProductVariant{{Label: "M", QuantityAvailable: 2}}

	_, err := ledger.Decrement(context.Background(), db, product, "M", 3)
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, details["available"])
}

func TestRestockProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(1), 3)

	_, err := ledger.Decrement(context.Background(), db, product, "", 1)
	require.NoError(t, err)

	require.NoError(t, ledger.Restock(context.Background(), db, product.ID, "", 1))

	var remaining int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&remaining).Error)
	assert.Equal(t, 1, remaining)

	var out bool
	require.NoError(t, db.Raw(`SELECT is_out_of_stock FROM products WHERE id = ?`, product.ID).Scan(&out).Error)
	assert.False(t, out)
}

func TestRestockVariantSyncsAggregate(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, intPtr(2), 3)
	seedVariant(t, db, product.ID, "M", 2)
	product.Variants = []models.ProductVariant{{Label: "M", QuantityAvailable: 2}}

	_, err := ledger.Decrement(context.Background(), db, product, "M", 2)
	require.NoError(t, err)

	require.NoError(t, ledger.Restock(context.Background(), db, product.ID, "M", 2))

	var aggregate int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&aggregate).Error)
	assert.Equal(t, 2, aggregate)
}

func TestRestockUnmanagedProductIsNoop(t *testing.T) {
	db := setupInventoryTestDB(t)
	ledger := NewLedger(3)
	product := seedProduct(t, db, nil, 3)

	require.NoError(t, ledger.Restock(context.Background(), db, product.ID, "", 5))

	var qty *int
	require.NoError(t, db.Raw(`SELECT quantity_available FROM products WHERE id = ?`, product.ID).Scan(&qty).Error)
	assert.Nil(t, qty)
}
