package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a listing posted by a seller. Stock is tracked one of three
// ways: per-variant rows, a flat QuantityAvailable counter, or not at all
// (QuantityAvailable nil and no variants means unmanaged inventory).
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID          uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index"`
	Title             string           `gorm:"column:title;not null"`
	Description       *string          `gorm:"column:description"`
	PriceCents        int              `gorm:"column:price_cents;not null"`
	ImageURL          *string          `gorm:"column:image_url"`
	QuantityAvailable *int             `gorm:"column:quantity_available"`
	IsOutOfStock      bool             `gorm:"column:is_out_of_stock;not null;default:false"`
	LowStockThreshold int              `gorm:"column:low_stock_threshold;not null;default:3"`
	Variants          []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// HasVariants reports whether stock is tracked per variant.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// ProductVariant is a named stock-keeping sub-unit (e.g. a size) with its own
// quantity and optional price override.
type ProductVariant struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_product_variants_label,unique"`
	Label             string    `gorm:"column:label;not null;index:idx_product_variants_label,unique"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0"`
	PriceCents        *int      `gorm:"column:price_cents"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
