package notifier

import (
	"fmt"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
)

// statusLine builds the buyer-facing narrative for a status change.
func statusLine(order *models.Order) string {
	switch order.Status {
	case enums.OrderStatusConfirmed:
		return fmt.Sprintf("Order %s has been confirmed by the seller.", order.OrderNumber)
	case enums.OrderStatusProcessing:
		return fmt.Sprintf("Order %s is being prepared.", order.OrderNumber)
	case enums.OrderStatusShipped:
		if order.Tracking != nil && order.Tracking.Number != "" {
			carrier := order.Tracking.Carrier
			if carrier == "" {
				carrier = "the carrier"
			}
			return fmt.Sprintf("Order %s has shipped via %s, tracking number %s.",
				order.OrderNumber, carrier, order.Tracking.Number)
		}
		return fmt.Sprintf("Order %s has shipped.", order.OrderNumber)
	case enums.OrderStatusOutForDelivery:
		return fmt.Sprintf("Order %s is out for delivery.", order.OrderNumber)
	case enums.OrderStatusDelivered:
		return fmt.Sprintf("Order %s has been delivered.", order.OrderNumber)
	case enums.OrderStatusCancelled:
		return fmt.Sprintf("Order %s has been cancelled.", order.OrderNumber)
	case enums.OrderStatusRefundRequested:
		return fmt.Sprintf("A refund has been requested for order %s.", order.OrderNumber)
	case enums.OrderStatusRefunded:
		return fmt.Sprintf("Order %s has been refunded.", order.OrderNumber)
	default:
		return fmt.Sprintf("Order %s status updated to %s.", order.OrderNumber, order.Status)
	}
}

func statusTitle(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusConfirmed:
		return "Order confirmed"
	case enums.OrderStatusProcessing:
		return "Order processing"
	case enums.OrderStatusShipped:
		return "Order shipped"
	case enums.OrderStatusOutForDelivery:
		return "Out for delivery"
	case enums.OrderStatusDelivered:
		return "Order delivered"
	case enums.OrderStatusCancelled:
		return "Order cancelled"
	case enums.OrderStatusRefundRequested:
		return "Refund requested"
	case enums.OrderStatusRefunded:
		return "Order refunded"
	default:
		return "Order update"
	}
}

func lowStockMessage(product *models.Product, variantLabel string, remaining int) (string, string) {
	if remaining <= 0 {
		if variantLabel != "" {
			return "Size out of stock",
				fmt.Sprintf("Size %s of %q is now out of stock.", variantLabel, product.Title)
		}
		return "Out of stock", fmt.Sprintf("%q is now out of stock.", product.Title)
	}
	if variantLabel != "" {
		return "Low stock",
			fmt.Sprintf("Size %s of %q is running low: %d left.", variantLabel, product.Title, remaining)
	}
	return "Low stock", fmt.Sprintf("%q is running low: %d left.", product.Title, remaining)
}
