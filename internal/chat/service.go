package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

const maxMessageLength = 4000

// Service defines conversation and message operations. The order core uses
// it to thread system and delivery-confirmation messages into the same
// conversation the buyer and seller chat in.
type Service interface {
	FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error)
	PostSystemMessage(ctx context.Context, conversationID uuid.UUID, body string) (*models.Message, error)
	PostDeliveryConfirmation(ctx context.Context, conversationID uuid.UUID, confirmation types.DeliveryConfirmation) (*models.Message, error)
	SetDeliveryConfirmation(ctx context.Context, conversationID, orderID uuid.UUID, confirmed bool, respondedAt time.Time) error
	ListMessages(ctx context.Context, input ListMessagesInput) (*ListMessagesResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// SendMessageInput carries a user-authored text message.
type SendMessageInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
}

// ListMessagesInput configures message pagination for one conversation.
type ListMessagesInput struct {
	ConversationID uuid.UUID
	RequesterID    uuid.UUID
	Limit          int
	Cursor         string
}

// ListMessagesResult wraps returned messages and the cursor for the next page.
type ListMessagesResult struct {
	Items  []models.Message `json:"items"`
	Cursor string           `json:"cursor"`
}

// NewService wires chat dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both participant ids are required")
	}
	if userA == userB {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot start a conversation with yourself")
	}

	conversation, err := s.repo.FindOrCreateConversation(ctx, userA, userB)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find or create conversation")
	}
	return conversation, nil
}

func (s *service) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body too long")
	}
	if input.SenderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender id is required")
	}

	conversation, err := s.repo.GetConversation(ctx, input.ConversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
	}
	if conversation.ParticipantLow != input.SenderID && conversation.ParticipantHigh != input.SenderID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "sender is not part of this conversation")
	}

	sender := input.SenderID
	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		SenderID:       &sender,
		Kind:           enums.MessageKindText,
		Body:           body,
	}
	if err := s.appendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *service) PostSystemMessage(ctx context.Context, conversationID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id is required")
	}

	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Kind:           enums.MessageKindSystem,
		Body:           body,
	}
	if err := s.appendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *service) PostDeliveryConfirmation(ctx context.Context, conversationID uuid.UUID, confirmation types.DeliveryConfirmation) (*models.Message, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id is required")
	}
	if confirmation.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Kind:           enums.MessageKindDeliveryConfirmation,
		Body:           "Please confirm you received order " + confirmation.OrderNumber,
		Confirmation:   &confirmation,
	}
	if err := s.appendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// SetDeliveryConfirmation writes the buyer's response onto the newest
// confirmation card for the order. The message row is updated in place so the
// thread does not grow a second card.
func (s *service) SetDeliveryConfirmation(ctx context.Context, conversationID, orderID uuid.UUID, confirmed bool, respondedAt time.Time) error {
	if conversationID == uuid.Nil || orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "conversation id and order id are required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		message, err := repo.LatestConfirmationMessage(ctx, conversationID, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load confirmation message")
		}
		if message == nil || message.Confirmation == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "delivery confirmation message not found")
		}
		if confirmed && message.Confirmation.Confirmed {
			return nil
		}

		message.Confirmation.Confirmed = confirmed
		if confirmed {
			at := respondedAt.UTC()
			message.Confirmation.ConfirmedAt = &at
		} else {
			message.Confirmation.ConfirmedAt = nil
		}
		if err := repo.UpdateMessageConfirmation(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update confirmation message")
		}
		return nil
	})
}

func (s *service) ListMessages(ctx context.Context, input ListMessagesInput) (*ListMessagesResult, error) {
	if input.ConversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id is required")
	}

	conversation, err := s.repo.GetConversation(ctx, input.ConversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conversation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
	}
	if input.RequesterID != uuid.Nil &&
		conversation.ParticipantLow != input.RequesterID &&
		conversation.ParticipantHigh != input.RequesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "requester is not part of this conversation")
	}

	params := listMessagesParams{
		ConversationID: input.ConversationID,
		Limit:          input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.ListMessages(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListMessagesResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) appendMessage(ctx context.Context, message *models.Message) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}
		if err := repo.TouchConversation(ctx, message.ConversationID, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch conversation")
		}
		return nil
	})
}
