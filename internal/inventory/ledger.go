package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

// DecrementResult reports what the stock looks like after a successful
// decrement so callers can raise low-stock alerts without re-reading.
type DecrementResult struct {
	Remaining  int
	LowStock   bool
	OutOfStock bool
	Unmanaged  bool
}

// Ledger guards product stock. Decrements are conditional UPDATEs so two
// concurrent checkouts can never drive a quantity below zero.
type Ledger interface {
	Decrement(ctx context.Context, tx *gorm.DB, product *models.Product, variantLabel string, qty int) (*DecrementResult, error)
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantLabel string, qty int) error
}

type ledger struct {
	defaultLowStockThreshold int
}

// NewLedger builds the stock ledger. The threshold applies when a product
// does not carry its own low-stock threshold.
func NewLedger(defaultLowStockThreshold int) Ledger {
	if defaultLowStockThreshold <= 0 {
		defaultLowStockThreshold = 3
	}
	return &ledger{defaultLowStockThreshold: defaultLowStockThreshold}
}

func (l *ledger) Decrement(ctx context.Context, tx *gorm.DB, product *models.Product, variantLabel string, qty int) (*DecrementResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	variantLabel = strings.TrimSpace(variantLabel)

	if product.HasVariants() {
		return l.decrementVariant(ctx, tx, product, variantLabel, qty)
	}
	if variantLabel != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no size options").
			WithDetails(map[string]any{"variant": variantLabel})
	}
	if product.QuantityAvailable == nil {
		// Stock tracking disabled for this listing.
		return &DecrementResult{Unmanaged: true}, nil
	}
	return l.decrementProduct(ctx, tx, product, qty)
}

func (l *ledger) decrementProduct(ctx context.Context, tx *gorm.DB, product *models.Product, qty int) (*DecrementResult, error) {
	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_available = quantity_available - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_out_of_stock = ? AND quantity_available >= ?
	`, qty, product.ID, false, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement product stock")
	}
	if res.RowsAffected == 0 {
		var row struct {
			Available int
			Out       bool
		}
		err := tx.WithContext(ctx).
			Raw(`SELECT COALESCE(quantity_available, 0) AS available, is_out_of_stock AS out FROM products WHERE id = ?`, product.ID).
			Scan(&row).Error
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product stock")
		}
		if row.Out || row.Available <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock").
				WithDetails(map[string]any{"available": 0})
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"available": row.Available, "requested": qty})
	}

	remaining, err := l.productAvailable(ctx, tx, product.ID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		if err := l.markOutOfStock(ctx, tx, product.ID, true); err != nil {
			return nil, err
		}
	}
	return &DecrementResult{
		Remaining:  remaining,
		LowStock:   remaining > 0 && remaining <= l.threshold(product),
		OutOfStock: remaining <= 0,
	}, nil
}

func (l *ledger) decrementVariant(ctx context.Context, tx *gorm.DB, product *models.Product, label string, qty int) (*DecrementResult, error) {
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size selection is required for this product")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE product_variants
		SET quantity_available = quantity_available - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND label = ? AND quantity_available >= ?
	`, qty, product.ID, label, qty)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement variant stock")
	}
	if res.RowsAffected == 0 {
		available, found, err := l.variantAvailable(ctx, tx, product.ID, label)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected size is unavailable").
				WithDetails(map[string]any{"variant": label})
		}
		if available <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "selected size is out of stock").
				WithDetails(map[string]any{"variant": label, "available": 0})
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"variant": label, "available": available, "requested": qty})
	}

	remaining, _, err := l.variantAvailable(ctx, tx, product.ID, label)
	if err != nil {
		return nil, err
	}
	total, err := l.variantTotal(ctx, tx, product.ID)
	if err != nil {
		return nil, err
	}

	// Keep the product aggregate in sync with its variant rows.
	if err := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_available = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, total, product.ID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync product aggregate stock")
	}
	if total <= 0 {
		if err := l.markOutOfStock(ctx, tx, product.ID, true); err != nil {
			return nil, err
		}
	}

	return &DecrementResult{
		Remaining:  remaining,
		LowStock:   remaining > 0 && remaining <= l.threshold(product),
		OutOfStock: total <= 0,
	}, nil
}

func (l *ledger) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantLabel string, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for restock")
	}
	if qty <= 0 {
		return nil
	}

	variantLabel = strings.TrimSpace(variantLabel)
	if variantLabel != "" {
		res := tx.WithContext(ctx).Exec(`
			UPDATE product_variants
			SET quantity_available = quantity_available + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE product_id = ? AND label = ?
		`, qty, productID, variantLabel)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock variant")
		}
		if res.RowsAffected == 0 {
			// Variant removed since the order was placed; nothing to restore.
			return nil
		}
		total, err := l.variantTotal(ctx, tx, productID)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET quantity_available = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, total, productID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync product aggregate stock")
		}
		return l.markOutOfStock(ctx, tx, productID, total <= 0)
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity_available = quantity_available + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_available IS NOT NULL
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock product")
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return l.markOutOfStock(ctx, tx, productID, false)
}

func (l *ledger) threshold(product *models.Product) int {
	if product.LowStockThreshold > 0 {
		return product.LowStockThreshold
	}
	return l.defaultLowStockThreshold
}

func (l *ledger) productAvailable(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int, error) {
	var available int
	err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(quantity_available, 0) FROM products WHERE id = ?`, productID).
		Scan(&available).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product stock")
	}
	return available, nil
}

func (l *ledger) variantAvailable(ctx context.Context, tx *gorm.DB, productID uuid.UUID, label string) (int, bool, error) {
	var rows []int
	err := tx.WithContext(ctx).
		Raw(`SELECT quantity_available FROM product_variants WHERE product_id = ? AND label = ?`, productID, label).
		Scan(&rows).Error
	if err != nil {
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read variant stock")
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0], true, nil
}

func (l *ledger) variantTotal(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int, error) {
	var total int
	err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(quantity_available), 0) FROM product_variants WHERE product_id = ?`, productID).
		Scan(&total).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum variant stock")
	}
	return total, nil
}

func (l *ledger) markOutOfStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, out bool) error {
	err := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET is_out_of_stock = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, out, productID).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update out-of-stock flag")
	}
	return nil
}
