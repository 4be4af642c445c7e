package orders

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

// PricingPolicy holds the checkout pricing knobs, all in integer cents.
type PricingPolicy struct {
	ShippingFeeCents  int
	FreeShippingCents int
}

// Quote is the computed price breakdown for an order.
type Quote struct {
	SubtotalCents int
	ShippingCents int
	DiscountCents int
	TotalCents    int
}

// BuildQuote prices an order: subtotal from the unit price snapshot, a flat
// shipping fee waived once the subtotal reaches the free-shipping threshold,
// and total = subtotal + shipping - discount.
func (p PricingPolicy) BuildQuote(unitPriceCents, qty, discountCents int) (Quote, error) {
	if unitPriceCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if qty <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if discountCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	subtotal := decimal.NewFromInt(int64(unitPriceCents)).Mul(decimal.NewFromInt(int64(qty)))

	shipping := decimal.NewFromInt(int64(p.ShippingFeeCents))
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(int64(p.FreeShippingCents))) {
		shipping = decimal.Zero
	}

	discount := decimal.NewFromInt(int64(discountCents))
	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds order value")
	}

	return Quote{
		SubtotalCents: int(subtotal.IntPart()),
		ShippingCents: int(shipping.IntPart()),
		DiscountCents: discountCents,
		TotalCents:    int(total.IntPart()),
	}, nil
}
