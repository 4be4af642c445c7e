package sequence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

// DateKeyLayout is the per-day bucket key for order counters.
const DateKeyLayout = "20060102"

// Issuer hands out gapless-per-day order numbers. Counters live in the
// order_sequences table and are advanced inside the caller's transaction so
// concurrent checkouts serialize on the row lock.
type Issuer interface {
	Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error)
}

type issuer struct {
	prefix string
}

// NewIssuer builds an Issuer that labels order numbers with the given prefix.
func NewIssuer(prefix string) (Issuer, error) {
	if prefix == "" {
		return nil, fmt.Errorf("sequence issuer requires a prefix")
	}
	return &issuer{prefix: prefix}, nil
}

func (i *issuer) Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	if tx == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "transaction required for sequence allocation")
	}

	dateKey := at.UTC().Format(DateKeyLayout)

	var counter int64
	res := tx.WithContext(ctx).Raw(`
		INSERT INTO order_sequences (date_key, counter, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (date_key) DO UPDATE
		SET counter = order_sequences.counter + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING counter
	`, dateKey).Scan(&counter)
	if res.Error != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "allocate order sequence")
	}
	if counter <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "order sequence returned no counter")
	}

	return Format(i.prefix, dateKey, counter), nil
}

// Format renders an order number such as BAZ-20250812-00032.
func Format(prefix, dateKey string, counter int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, dateKey, counter)
}
