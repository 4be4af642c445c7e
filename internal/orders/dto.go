package orders

import (
	"github.com/google/uuid"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

// Actor identifies who is performing a mutating call. Identity comes from the
// authentication layer and is trusted as-is.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// SystemActor attributes history entries written by background jobs.
var SystemActor = Actor{Name: "system"}

// CreateOrderInput is a buyer checkout request for a single listing.
type CreateOrderInput struct {
	Buyer           Actor
	ProductID       uuid.UUID
	Quantity        int
	VariantLabel    string
	PaymentMethod   enums.PaymentMethod
	ShippingAddress types.ShippingAddress
	DiscountCents   int
}

// UpdateStatusInput is a seller-driven transition request.
type UpdateStatusInput struct {
	OrderID  uuid.UUID
	Seller   Actor
	Status   enums.OrderStatus
	Note     *string
	Tracking *types.Tracking
}

// CancelInput is a buyer cancellation request.
type CancelInput struct {
	OrderID uuid.UUID
	Buyer   Actor
	Reason  string
}

// RefundRequestInput asks for a full-order refund on a delivered order.
type RefundRequestInput struct {
	OrderID uuid.UUID
	Buyer   Actor
	Reason  string
}

// ConfirmDeliveryInput carries the buyer's answer to the confirmation prompt.
type ConfirmDeliveryInput struct {
	OrderID   uuid.UUID
	Buyer     Actor
	Confirmed bool
}

// VerifyPaymentInput records a completed online payment against an order.
type VerifyPaymentInput struct {
	OrderID       uuid.UUID
	Seller        Actor
	TransactionID string
}

// AddNoteInput attaches an internal seller note to an order.
type AddNoteInput struct {
	OrderID uuid.UUID
	Seller  Actor
	Note    string
}

// ListOrdersInput configures buyer or seller order listing.
type ListOrdersInput struct {
	UserID uuid.UUID
	Status *enums.OrderStatus
	Limit  int
	Cursor string
}

// ListOrdersResult wraps a page of orders and the next-page cursor.
type ListOrdersResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}

// SellerOrdersResult adds the seller dashboard aggregates to a page of orders.
type SellerOrdersResult struct {
	Items        []models.Order              `json:"items"`
	Cursor       string                      `json:"cursor"`
	StatusCounts map[enums.OrderStatus]int64 `json:"status_counts"`
	RevenueCents int64                       `json:"revenue_cents"`
}

// SellerStats is the seller dashboard summary.
type SellerStats struct {
	TotalOrders     int64                       `json:"total_orders"`
	StatusCounts    map[enums.OrderStatus]int64 `json:"status_counts"`
	RevenueCents    int64                       `json:"revenue_cents"`
	PendingActions  int64                       `json:"pending_actions"`
	DeliveredOrders int64                       `json:"delivered_orders"`
}

// SweepResult reports one auto-confirmation pass.
type SweepResult struct {
	Scanned   int
	Confirmed int
	FailedIDs []uuid.UUID
}
