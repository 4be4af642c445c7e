package chat

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
)

// Repository exposes persistence helpers for conversations and messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error)
	LatestConfirmationMessage(ctx context.Context, conversationID, orderID uuid.UUID) (*models.Message, error)
	UpdateMessageConfirmation(ctx context.Context, message *models.Message) error
	TouchConversation(ctx context.Context, conversationID uuid.UUID, at time.Time) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a chat repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listMessagesParams struct {
	ConversationID uuid.UUID
	Limit          int
	Cursor         *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// NormalizePair orders two participant ids so the unordered pair always maps
// to the same (low, high) tuple.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

func (r *repositoryImpl) FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	low, high := NormalizePair(userA, userB)

	conversation := &models.Conversation{
		ID:              uuid.New(),
		ParticipantLow:  low,
		ParticipantHigh: high,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_low"}, {Name: "participant_high"}},
			DoNothing: true,
		}).
		Create(conversation).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller always sees the persisted row, whether this call
	// created it or raced with another.
	var found models.Conversation
	err = r.db.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&found).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *repositoryImpl) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *repositoryImpl) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repositoryImpl) ListMessages(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", params.ConversationID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var messages []models.Message
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	if len(messages) > normalized {
		next := messages[normalized]
		messages = messages[:normalized]
		return messages, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return messages, nil, nil
}

func (r *repositoryImpl) LatestConfirmationMessage(ctx context.Context, conversationID, orderID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND kind = ?", conversationID, enums.MessageKindDeliveryConfirmation).
		Where("confirmation ->> 'order_id' = ?", orderID.String()).
		Order("created_at DESC, id DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *repositoryImpl) UpdateMessageConfirmation(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", message.ID).
		Updates(map[string]any{
			"confirmation": message.Confirmation,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repositoryImpl) TouchConversation(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn("last_message_at", at).Error
}
