package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucaspaiva/bazario-backend/internal/notifications"
	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

// ConversationClient is the slice of the chat service the notifier needs.
type ConversationClient interface {
	FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	PostSystemMessage(ctx context.Context, conversationID uuid.UUID, body string) (*models.Message, error)
	PostDeliveryConfirmation(ctx context.Context, conversationID uuid.UUID, confirmation types.DeliveryConfirmation) (*models.Message, error)
	SetDeliveryConfirmation(ctx context.Context, conversationID, orderID uuid.UUID, confirmed bool, respondedAt time.Time) error
}

// NotificationClient records in-app notifications.
type NotificationClient interface {
	Create(ctx context.Context, input notifications.CreateInput) (*models.Notification, error)
}

// PushPublisher hands a push payload to the delivery pipeline. Token
// resolution and device delivery live behind the topic.
type PushPublisher interface {
	Publish(ctx context.Context, payload any, attrs map[string]string) error
}

type orderLinker interface {
	SetConversation(ctx context.Context, orderID, conversationID uuid.UUID) error
}

// PushPayload is the message published for downstream push delivery.
type PushPayload struct {
	UserID      uuid.UUID              `json:"user_id"`
	Type        enums.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	OrderID     *uuid.UUID             `json:"order_id,omitempty"`
	OrderNumber string                 `json:"order_number,omitempty"`
}

// Service fans committed order changes out to the chat thread, the in-app
// notification feed and the push pipeline. Every channel is best-effort and
// independent: a failure is logged and the rest still run.
type Service struct {
	conversations ConversationClient
	notifications NotificationClient
	push          PushPublisher
	linker        orderLinker
	logg          *logger.Logger
}

// NewService wires the fan-out channels. push may be nil when no push
// pipeline is configured (e.g. local development).
func NewService(conversations ConversationClient, notifs NotificationClient, push PushPublisher, linker orderLinker, logg *logger.Logger) (*Service, error) {
	if conversations == nil {
		return nil, fmt.Errorf("conversation client required")
	}
	if notifs == nil {
		return nil, fmt.Errorf("notification client required")
	}
	if linker == nil {
		return nil, fmt.Errorf("order linker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		conversations: conversations,
		notifications: notifs,
		push:          push,
		linker:        linker,
		logg:          logg,
	}, nil
}

// OrderCreated announces a new order to the seller and confirms it to the buyer.
func (s *Service) OrderCreated(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	conversationID := s.conversationFor(ctx, order)
	if conversationID != uuid.Nil {
		body := fmt.Sprintf("Order %s placed.", order.OrderNumber)
		if len(order.Items) > 0 {
			item := order.Items[0]
			body = fmt.Sprintf("Order %s placed: %d x %s.", order.OrderNumber, item.Qty, item.Title)
		}
		if _, err := s.conversations.PostSystemMessage(ctx, conversationID, body); err != nil {
			s.logg.Error(ctx, "fan-out: post order-placed message", err)
		}
	}

	s.notify(ctx, order.SellerID, enums.NotificationTypeOrderPlaced,
		"New order received",
		fmt.Sprintf("Order %s is waiting for your confirmation.", order.OrderNumber),
		order)
}

// OrderStatusChanged narrates a seller-driven transition to the buyer and,
// for the delivery handshake states, posts the confirmation card. Buyer and
// sweep responses to the card go through DeliveryConfirmed or
// DeliveryDisputed instead, which answer the existing card rather than
// posting a new one.
func (s *Service) OrderStatusChanged(ctx context.Context, order *models.Order, previous enums.OrderStatus, note *string) {
	if order == nil {
		return
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	conversationID := s.conversationFor(ctx, order)
	if conversationID != uuid.Nil {
		body := statusLine(order)
		if note != nil && *note != "" && order.Status == enums.OrderStatusCancelled {
			body = fmt.Sprintf("%s Reason: %s", body, *note)
		}
		if _, err := s.conversations.PostSystemMessage(ctx, conversationID, body); err != nil {
			s.logg.Error(ctx, "fan-out: post status message", err)
		}

		if order.Status == enums.OrderStatusOutForDelivery || order.Status == enums.OrderStatusDelivered {
			confirmation := types.DeliveryConfirmation{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
			}
			if _, err := s.conversations.PostDeliveryConfirmation(ctx, conversationID, confirmation); err != nil {
				s.logg.Error(ctx, "fan-out: post delivery confirmation card", err)
			}
		}
	}

	s.notify(ctx, order.BuyerID, enums.NotificationTypeOrderUpdate,
		statusTitle(order.Status), statusLine(order), order)
}

// DeliveryConfirmed settles the handshake after the buyer, or the
// auto-confirm sweep, accepts delivery. The newest confirmation card for the
// order is answered in place; no new card is posted.
func (s *Service) DeliveryConfirmed(ctx context.Context, order *models.Order, respondedAt time.Time) {
	if order == nil {
		return
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	conversationID := s.conversationFor(ctx, order)
	if conversationID != uuid.Nil {
		if err := s.conversations.SetDeliveryConfirmation(ctx, conversationID, order.ID, true, respondedAt); err != nil {
			s.logg.Error(ctx, "fan-out: answer delivery confirmation card", err)
		}
		if _, err := s.conversations.PostSystemMessage(ctx, conversationID, statusLine(order)); err != nil {
			s.logg.Error(ctx, "fan-out: post status message", err)
		}
	}

	s.notify(ctx, order.SellerID, enums.NotificationTypeOrderUpdate,
		"Delivery confirmed",
		fmt.Sprintf("Order %s was confirmed as delivered.", order.OrderNumber),
		order)
}

// LowStock alerts the seller that a listing needs restocking.
func (s *Service) LowStock(ctx context.Context, product *models.Product, variantLabel string, remaining int) {
	if product == nil {
		return
	}

	title, body := lowStockMessage(product, variantLabel, remaining)
	if _, err := s.notifications.Create(ctx, notifications.CreateInput{
		UserID:  product.SellerID,
		Type:    enums.NotificationTypeLowStock,
		Title:   title,
		Message: body,
	}); err != nil {
		s.logg.Error(ctx, "fan-out: create low-stock notification", err)
	}
	s.publishPush(ctx, PushPayload{
		UserID: product.SellerID,
		Type:   enums.NotificationTypeLowStock,
		Title:  title,
		Body:   body,
	})
}

// DeliveryDisputed surfaces a buyer's "not received" response to the seller.
func (s *Service) DeliveryDisputed(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	conversationID := s.conversationFor(ctx, order)
	if conversationID != uuid.Nil {
		if err := s.conversations.SetDeliveryConfirmation(ctx, conversationID, order.ID, false, time.Now().UTC()); err != nil {
			s.logg.Error(ctx, "fan-out: answer delivery confirmation card", err)
		}
		body := fmt.Sprintf("The buyer reported that order %s was not received. Please follow up.", order.OrderNumber)
		if _, err := s.conversations.PostSystemMessage(ctx, conversationID, body); err != nil {
			s.logg.Error(ctx, "fan-out: post dispute message", err)
		}
	}

	s.notify(ctx, order.SellerID, enums.NotificationTypeDeliveryDispute,
		"Delivery disputed",
		fmt.Sprintf("The buyer says order %s did not arrive.", order.OrderNumber),
		order)
}

// conversationFor resolves the buyer-seller thread, creating and linking it
// on first contact. Returns uuid.Nil when the thread cannot be resolved; the
// remaining channels still run in that case.
func (s *Service) conversationFor(ctx context.Context, order *models.Order) uuid.UUID {
	if order.ConversationID != nil {
		return *order.ConversationID
	}

	conversation, err := s.conversations.FindOrCreateConversation(ctx, order.BuyerID, order.SellerID)
	if err != nil {
		s.logg.Error(ctx, "fan-out: find or create conversation", err)
		return uuid.Nil
	}

	if err := s.linker.SetConversation(ctx, order.ID, conversation.ID); err != nil {
		s.logg.Error(ctx, "fan-out: link conversation to order", err)
	}
	order.ConversationID = &conversation.ID
	return conversation.ID
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string, order *models.Order) {
	if _, err := s.notifications.Create(ctx, notifications.CreateInput{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: body,
	}); err != nil {
		s.logg.Error(ctx, "fan-out: create notification", err)
	}

	payload := PushPayload{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
	}
	if order != nil {
		id := order.ID
		payload.OrderID = &id
		payload.OrderNumber = order.OrderNumber
	}
	s.publishPush(ctx, payload)
}

func (s *Service) publishPush(ctx context.Context, payload PushPayload) {
	if s.push == nil {
		return
	}
	attrs := map[string]string{
		"user_id": payload.UserID.String(),
		"type":    string(payload.Type),
	}
	if err := s.push.Publish(ctx, payload, attrs); err != nil {
		s.logg.Error(ctx, "fan-out: publish push notification", err)
	}
}
