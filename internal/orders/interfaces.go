package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/internal/inventory"
	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
)

// Repository exposes order persistence. Status changes go through
// TransitionStatus, which validates against the persisted status so a stale
// in-memory copy can never win a race.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, fields map[string]any) (bool, error)
	AppendHistory(ctx context.Context, event *models.OrderStatusEvent) error
	UpdateFields(ctx context.Context, orderID uuid.UUID, fields map[string]any) error
	SetConversation(ctx context.Context, orderID, conversationID uuid.UUID) error
	ListBuyerOrders(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
	ListSellerOrders(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error)
	SellerStatusCounts(ctx context.Context, sellerID uuid.UUID) (map[enums.OrderStatus]int64, error)
	SellerRevenueCents(ctx context.Context, sellerID uuid.UUID) (int64, error)
	FindStaleOutForDelivery(ctx context.Context, before time.Time, limit int) ([]models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SequenceIssuer allocates the human-facing order number.
type SequenceIssuer interface {
	Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error)
}

// StockLedger is the conditional-decrement inventory collaborator.
type StockLedger interface {
	Decrement(ctx context.Context, tx *gorm.DB, product *models.Product, variantLabel string, qty int) (*inventory.DecrementResult, error)
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantLabel string, qty int) error
}

// Notifier fans a committed order change out to chat, in-app and push
// channels. Implementations must swallow their own failures; the order core
// never inspects a fan-out result.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, previous enums.OrderStatus, note *string)
	LowStock(ctx context.Context, product *models.Product, variantLabel string, remaining int)
	DeliveryConfirmed(ctx context.Context, order *models.Order, respondedAt time.Time)
	DeliveryDisputed(ctx context.Context, order *models.Order)
}
