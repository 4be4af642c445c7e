package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

// Conversation is a buyer-seller message thread. The participant pair is
// stored normalized (lexicographically smaller UUID first) so lookup by the
// unordered pair hits a single unique index and duplicates cannot exist.
type Conversation struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParticipantLow uuid.UUID  `gorm:"column:participant_low;type:uuid;not null;index:idx_conversations_pair,unique"`
	ParticipantHigh uuid.UUID `gorm:"column:participant_high;type:uuid;not null;index:idx_conversations_pair,unique"`
	LastMessageAt  *time.Time `gorm:"column:last_message_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Message is one entry in a conversation. SenderID is nil for synthetic
// system messages written by the order core.
type Message struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID         `gorm:"column:conversation_id;type:uuid;not null;index"`
	SenderID       *uuid.UUID        `gorm:"column:sender_id;type:uuid"`
	Kind           enums.MessageKind `gorm:"column:kind;type:message_kind;not null;default:'text'"`
	Body           string            `gorm:"column:body;not null"`

	// Confirmation is only set on delivery_confirmation messages and is the
	// single payload mutated in place after creation.
	Confirmation *types.DeliveryConfirmation `gorm:"column:confirmation;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
