package orders

import (
	"fmt"

	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

// transitions is the canonical status graph. A transition absent from this
// table is invalid no matter who asks.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:         {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:       {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing:      {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:         {enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered},
	enums.OrderStatusOutForDelivery:  {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:       {enums.OrderStatusRefundRequested},
	enums.OrderStatusCancelled:       {},
	enums.OrderStatusRefundRequested: {enums.OrderStatusRefunded},
	enums.OrderStatusRefunded:        {},
}

// CanTransition reports whether from -> to exists in the status graph.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNext returns the states reachable from the given status.
func AllowedNext(from enums.OrderStatus) []enums.OrderStatus {
	next := transitions[from]
	out := make([]enums.OrderStatus, len(next))
	copy(out, next)
	return out
}

func validateTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("invalid transition from %s to %s", from, to)).
			WithDetails(map[string]any{
				"current": from,
				"target":  to,
				"allowed": AllowedNext(from),
			})
	}
	return nil
}

// cancellableStatuses are the states a buyer may cancel from, window permitting.
var cancellableStatuses = map[enums.OrderStatus]bool{
	enums.OrderStatusPending:    true,
	enums.OrderStatusConfirmed:  true,
	enums.OrderStatusProcessing: true,
}
