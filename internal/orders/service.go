package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/internal/inventory"
	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

// Policy bundles the business-time knobs for the order lifecycle.
type Policy struct {
	Pricing            PricingPolicy
	CancellationWindow time.Duration
	AutoConfirmAfter   time.Duration
}

// Service is the order lifecycle engine entry point.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID, requesterID uuid.UUID) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	ListSellerOrders(ctx context.Context, input ListOrdersInput) (*SellerOrdersResult, error)
	SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	RequestRefund(ctx context.Context, input RefundRequestInput) (*models.Order, error)
	ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*models.Order, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*models.Order, error)
	AddSellerNote(ctx context.Context, input AddNoteInput) error
	AutoConfirmSweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	sequence SequenceIssuer
	ledger   StockLedger
	notifier Notifier
	policy   Policy
	logg     *logger.Logger
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, seq SequenceIssuer, ledger StockLedger, notifier Notifier, policy Policy, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence issuer required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if policy.CancellationWindow <= 0 {
		policy.CancellationWindow = 24 * time.Hour
	}
	if policy.AutoConfirmAfter <= 0 {
		policy.AutoConfirmAfter = 48 * time.Hour
	}
	return &service{
		repo:     repo,
		tx:       tx,
		sequence: seq,
		ledger:   ledger,
		notifier: notifier,
		policy:   policy,
		logg:     logg,
	}, nil
}

// Create runs the checkout protocol: price, number, persist and decrement in
// one transaction, then fan out. A failed decrement rolls the whole order
// back, so stock and orders can never disagree.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.Buyer.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}

	now := time.Now().UTC()
	var (
		order    *models.Order
		decision *inventory.DecrementResult
		product  *models.Product
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		product, err = repo.GetProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if product.SellerID == input.Buyer.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "you cannot purchase your own listing")
		}

		unitPrice := unitPriceFor(product, input.VariantLabel)
		quote, err := s.policy.Pricing.BuildQuote(unitPrice, input.Quantity, input.DiscountCents)
		if err != nil {
			return err
		}

		orderNumber, err := s.sequence.Next(ctx, tx, now)
		if err != nil {
			return err
		}

		buyer := input.Buyer
		order = &models.Order{
			ID:            uuid.New(),
			OrderNumber:   orderNumber,
			BuyerID:       buyer.ID,
			SellerID:      product.SellerID,
			SubtotalCents: quote.SubtotalCents,
			ShippingCents: quote.ShippingCents,
			DiscountCents: quote.DiscountCents,
			TotalCents:    quote.TotalCents,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: enums.PaymentStatusPending,
			ShippingAddress: &input.ShippingAddress,
			Status:        enums.OrderStatusPending,
			Items: []models.OrderItem{
				{
					ID:             uuid.New(),
					ProductID:      &product.ID,
					Title:          product.Title,
					UnitPriceCents: unitPrice,
					Qty:            input.Quantity,
					TotalCents:     unitPrice * input.Quantity,
					ImageURL:       product.ImageURL,
					VariantLabel:   optionalString(input.VariantLabel),
					Position:       0,
				},
			},
			History: []models.OrderStatusEvent{
				{
					ID:        uuid.New(),
					Status:    enums.OrderStatusPending,
					ActorID:   &buyer.ID,
					ActorName: buyer.Name,
					Note:      optionalString("Order placed"),
				},
			},
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		decision, err = s.ledger.Decrement(ctx, tx, product, input.VariantLabel, input.Quantity)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fan-out runs only after the transaction committed.
	s.notifier.OrderCreated(ctx, order)
	if decision != nil && (decision.LowStock || decision.OutOfStock) {
		s.notifier.LowStock(ctx, product, input.VariantLabel, decision.Remaining)
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if requesterID != order.BuyerID && requesterID != order.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is visible to its buyer and seller only")
	}
	return order, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error) {
	params, err := buildListParams(input)
	if err != nil {
		return nil, err
	}

	rows, next, err := s.repo.ListBuyerOrders(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return &ListOrdersResult{Items: rows, Cursor: encodeCursor(next)}, nil
}

func (s *service) ListSellerOrders(ctx context.Context, input ListOrdersInput) (*SellerOrdersResult, error) {
	params, err := buildListParams(input)
	if err != nil {
		return nil, err
	}

	rows, next, err := s.repo.ListSellerOrders(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	counts, err := s.repo.SellerStatusCounts(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count seller orders")
	}
	revenue, err := s.repo.SellerRevenueCents(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum seller revenue")
	}

	return &SellerOrdersResult{
		Items:        rows,
		Cursor:       encodeCursor(next),
		StatusCounts: counts,
		RevenueCents: revenue,
	}, nil
}

func (s *service) SellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}

	counts, err := s.repo.SellerStatusCounts(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count seller orders")
	}
	revenue, err := s.repo.SellerRevenueCents(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum seller revenue")
	}

	stats := &SellerStats{
		StatusCounts: counts,
		RevenueCents: revenue,
	}
	for status, count := range counts {
		stats.TotalOrders += count
		switch status {
		case enums.OrderStatusPending, enums.OrderStatusRefundRequested:
			stats.PendingActions += count
		case enums.OrderStatusDelivered:
			stats.DeliveredOrders += count
		}
	}
	return stats, nil
}

// UpdateStatus is the seller-driven transition entry point.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Seller.ID, partySeller)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(order.Status, input.Status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]any{}
	if input.Tracking != nil {
		fields["tracking"] = mergedTracking(order, input.Tracking)
	}
	if input.Status == enums.OrderStatusDelivered {
		for column, value := range deliveredFields(order, now) {
			fields[column] = value
		}
	}

	if err := s.transition(ctx, order, input.Status, fields, input.Seller, input.Note); err != nil {
		return nil, err
	}

	previous := order.Status
	updated, err := s.repo.GetOrder(ctx, order.ID)
	if err != nil || updated == nil {
		// The transition committed; reading it back is best-effort.
		s.logg.Error(ctx, "reload order after transition", err)
		updated = order
		updated.Status = input.Status
	}

	s.notifier.OrderStatusChanged(ctx, updated, previous, input.Note)
	return updated, nil
}

// Cancel enforces the buyer cancellation policy: eligible statuses only, and
// a hard window measured from order creation.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Buyer.ID, partyBuyer)
	if err != nil {
		return nil, err
	}
	if !cancellableStatuses[order.Status] {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("orders in status %s cannot be cancelled; request a refund instead", order.Status))
	}

	now := time.Now().UTC()
	if now.Sub(order.CreatedAt) > s.policy.CancellationWindow {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"the cancellation window has closed; request a refund instead").
			WithDetails(map[string]any{
				"ordered_at":   order.CreatedAt,
				"window_hours": int(s.policy.CancellationWindow.Hours()),
			})
	}

	reason := strings.TrimSpace(input.Reason)
	fields := map[string]any{
		"cancel_reason":   optionalString(reason),
		"cancelled_by_id": input.Buyer.ID,
	}
	if order.PaymentMethod == enums.PaymentMethodOnline && order.PaymentStatus == enums.PaymentStatusCompleted {
		fields["refund_amount_cents"] = order.TotalCents
		fields["refund_reason"] = "refund pending after cancellation"
	}

	var restockErr error
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		moved, err := repo.TransitionStatus(ctx, order.ID, order.Status, enums.OrderStatusCancelled, fields)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !moved {
			return staleTransitionError(order.Status, enums.OrderStatusCancelled)
		}
		if err := repo.AppendHistory(ctx, historyEvent(order.ID, enums.OrderStatusCancelled, input.Buyer, optionalString(reason))); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history")
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			label := ""
			if item.VariantLabel != nil {
				label = *item.VariantLabel
			}
			if err := s.ledger.Restock(ctx, tx, *item.ProductID, label, item.Qty); err != nil {
				// Restock is secondary to the cancellation itself.
				restockErr = err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if restockErr != nil {
		s.logg.Error(ctx, "restock after cancellation", restockErr)
	}

	previous := order.Status
	updated, err := s.repo.GetOrder(ctx, order.ID)
	if err != nil || updated == nil {
		s.logg.Error(ctx, "reload order after cancellation", err)
		updated = order
		updated.Status = enums.OrderStatusCancelled
	}

	s.notifier.OrderStatusChanged(ctx, updated, previous, optionalString(reason))
	return updated, nil
}

func (s *service) RequestRefund(ctx context.Context, input RefundRequestInput) (*models.Order, error) {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Buyer.ID, partyBuyer)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "refunds can only be requested on delivered orders")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a refund reason is required")
	}

	fields := map[string]any{
		"refund_amount_cents": order.TotalCents,
		"refund_reason":       reason,
	}
	if err := s.transition(ctx, order, enums.OrderStatusRefundRequested, fields, input.Buyer, optionalString(reason)); err != nil {
		return nil, err
	}

	previous := order.Status
	updated, err := s.repo.GetOrder(ctx, order.ID)
	if err != nil || updated == nil {
		s.logg.Error(ctx, "reload order after refund request", err)
		updated = order
		updated.Status = enums.OrderStatusRefundRequested
	}

	s.notifier.OrderStatusChanged(ctx, updated, previous, optionalString(reason))
	return updated, nil
}

// ConfirmDelivery handles the buyer's side of the delivery handshake.
func (s *service) ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*models.Order, error) {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Buyer.ID, partyBuyer)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusDelivered && order.Status != enums.OrderStatusOutForDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"delivery can only be confirmed while the order is out for delivery or delivered")
	}

	if !input.Confirmed {
		return s.denyDelivery(ctx, order, input.Buyer)
	}
	return s.confirmDelivered(ctx, order, input.Buyer, "Buyer confirmed delivery")
}

func (s *service) denyDelivery(ctx context.Context, order *models.Order, buyer Actor) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		return repo.AppendHistory(ctx, historyEvent(order.ID, order.Status, buyer, optionalString("Buyer reported the order was not received")))
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record delivery denial")
	}

	s.notifier.DeliveryDisputed(ctx, order)
	return order, nil
}

// confirmDelivered is the shared terminal path for explicit buyer
// confirmation and the auto-confirmation sweep. Re-confirming an order that
// is already delivered is a no-op: no new history, no restamp.
func (s *service) confirmDelivered(ctx context.Context, order *models.Order, actor Actor, note string) (*models.Order, error) {
	if order.Status == enums.OrderStatusDelivered {
		return order, nil
	}

	now := time.Now().UTC()
	fields := deliveredFields(order, now)
	if err := s.transition(ctx, order, enums.OrderStatusDelivered, fields, actor, optionalString(note)); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetOrder(ctx, order.ID)
	if err != nil || updated == nil {
		s.logg.Error(ctx, "reload order after delivery confirmation", err)
		updated = order
		updated.Status = enums.OrderStatusDelivered
		updated.DeliveredAt = &now
	}

	s.notifier.DeliveryConfirmed(ctx, updated, now)
	return updated, nil
}

func (s *service) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*models.Order, error) {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Seller.ID, partySeller)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only online payments can be verified")
	}
	if order.PaymentStatus == enums.PaymentStatusCompleted {
		return order, nil
	}
	transactionID := strings.TrimSpace(input.TransactionID)
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	now := time.Now().UTC()
	err = s.repo.UpdateFields(ctx, order.ID, map[string]any{
		"payment_status": enums.PaymentStatusCompleted,
		"transaction_id": transactionID,
		"paid_at":        now,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment")
	}

	order.PaymentStatus = enums.PaymentStatusCompleted
	order.TransactionID = &transactionID
	order.PaidAt = &now
	return order, nil
}

func (s *service) AddSellerNote(ctx context.Context, input AddNoteInput) error {
	order, err := s.loadOrderFor(ctx, input.OrderID, input.Seller.ID, partySeller)
	if err != nil {
		return err
	}
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "note text is required")
	}

	if err := s.repo.UpdateFields(ctx, order.ID, map[string]any{"seller_notes": note}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save seller note")
	}
	return nil
}

// AutoConfirmSweep finalizes stale out-for-delivery orders. Each order is
// handled independently; one failure never stops the rest.
func (s *service) AutoConfirmSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	cutoff := now.UTC().Add(-s.policy.AutoConfirmAfter)
	stale, err := s.repo.FindStaleOutForDelivery(ctx, cutoff, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stale deliveries")
	}

	result := &SweepResult{Scanned: len(stale)}
	var errs error
	for i := range stale {
		order := stale[i]
		if _, err := s.confirmDelivered(ctx, &order, SystemActor, "Delivery auto-confirmed after 48 hours without a buyer response"); err != nil {
			result.FailedIDs = append(result.FailedIDs, order.ID)
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.OrderNumber, err))
			continue
		}
		result.Confirmed++
	}
	if errs != nil {
		s.logg.Error(ctx, "auto-confirm sweep completed with failures", errs)
	}
	return result, nil
}

type party int

const (
	partyBuyer party = iota
	partySeller
)

func (s *service) loadOrderFor(ctx context.Context, orderID, actorID uuid.UUID, role party) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity required")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	switch role {
	case partyBuyer:
		if order.BuyerID != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the buyer can perform this action")
		}
	case partySeller:
		if order.SellerID != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can perform this action")
		}
	}
	return order, nil
}

// transition applies a guarded status change plus its history entry in one
// transaction.
func (s *service) transition(ctx context.Context, order *models.Order, to enums.OrderStatus, fields map[string]any, actor Actor, note *string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		moved, err := repo.TransitionStatus(ctx, order.ID, order.Status, to, fields)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order status")
		}
		if !moved {
			return staleTransitionError(order.Status, to)
		}
		if err := repo.AppendHistory(ctx, historyEvent(order.ID, to, actor, note)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history")
		}
		return nil
	})
}

func staleTransitionError(expected, target enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("order status changed while moving from %s to %s; reload and retry", expected, target))
}

func historyEvent(orderID uuid.UUID, status enums.OrderStatus, actor Actor, note *string) *models.OrderStatusEvent {
	event := &models.OrderStatusEvent{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    status,
		Note:      note,
		ActorName: actor.Name,
	}
	if actor.ID != uuid.Nil {
		id := actor.ID
		event.ActorID = &id
	}
	return event
}

func deliveredFields(order *models.Order, at time.Time) map[string]any {
	fields := map[string]any{"delivered_at": at}
	if order.PaymentMethod == enums.PaymentMethodCOD && order.PaymentStatus != enums.PaymentStatusCompleted {
		fields["payment_status"] = enums.PaymentStatusCompleted
		fields["paid_at"] = at
	}
	return fields
}

func mergedTracking(order *models.Order, incoming *types.Tracking) *types.Tracking {
	if order.Tracking == nil {
		return incoming
	}
	merged := *order.Tracking
	if incoming.Number != "" {
		merged.Number = incoming.Number
	}
	if incoming.Carrier != "" {
		merged.Carrier = incoming.Carrier
	}
	if incoming.URL != "" {
		merged.URL = incoming.URL
	}
	if incoming.EstimatedDelivery != nil {
		merged.EstimatedDelivery = incoming.EstimatedDelivery
	}
	return &merged
}

func unitPriceFor(product *models.Product, variantLabel string) int {
	if variantLabel != "" {
		for _, variant := range product.Variants {
			if variant.Label == variantLabel && variant.PriceCents != nil {
				return *variant.PriceCents
			}
		}
	}
	return product.PriceCents
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func buildListParams(input ListOrdersInput) (listOrdersParams, error) {
	if input.UserID == uuid.Nil {
		return listOrdersParams{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	params := listOrdersParams{
		UserID: input.UserID,
		Status: input.Status,
		Limit:  input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return listOrdersParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}
	return params, nil
}

func encodeCursor(cursor *pagination.Cursor) string {
	if cursor == nil {
		return ""
	}
	return pagination.EncodeCursor(*cursor)
}
