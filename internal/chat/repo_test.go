package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	conversations := `
CREATE TABLE IF NOT EXISTS conversations (
  id TEXT PRIMARY KEY,
  participant_low TEXT NOT NULL,
  participant_high TEXT NOT NULL,
  last_message_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (participant_low, participant_high)
);`
	messages := `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  sender_id TEXT,
  kind TEXT NOT NULL DEFAULT 'text',
  body TEXT NOT NULL,
  confirmation TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(conversations).Error)
	require.NoError(t, db.Exec(messages).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM messages")
		db.Exec("DELETE FROM conversations")
	})

	return db
}

func TestFindOrCreateConversationIdempotent(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userA := uuid.New()
	userB := uuid.New()

	first, err := repo.FindOrCreateConversation(ctx, userA, userB)
	require.NoError(t, err)

	// Same pair in the opposite order resolves to the same row.
	second, err := repo.FindOrCreateConversation(ctx, userB, userA)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateConversationStoresNormalizedPair(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)

	userA := uuid.New()
	userB := uuid.New()
	low, high := NormalizePair(userA, userB)

	conversation, err := repo.FindOrCreateConversation(context.Background(), userB, userA)
	require.NoError(t, err)
	assert.Equal(t, low, conversation.ParticipantLow)
	assert.Equal(t, high, conversation.ParticipantHigh)
}

func TestLatestConfirmationMessageMatchesOrder(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreateConversation(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	targetOrder := uuid.New()
	otherOrder := uuid.New()

	older := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Kind:           enums.MessageKindDeliveryConfirmation,
		Body:           "Please confirm you received order BAZ-20250812-00001",
		Confirmation:   &types.DeliveryConfirmation{OrderID: targetOrder, OrderNumber: "BAZ-20250812-00001"},
		CreatedAt:      time.Now().UTC().Add(-2 * time.Hour),
	}
	newer := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Kind:           enums.MessageKindDeliveryConfirmation,
		Body:           "Please confirm you received order BAZ-20250812-00001",
		Confirmation:   &types.DeliveryConfirmation{OrderID: targetOrder, OrderNumber: "BAZ-20250812-00001"},
		CreatedAt:      time.Now().UTC().Add(-time.Hour),
	}
	unrelated := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Kind:           enums.MessageKindDeliveryConfirmation,
		Body:           "Please confirm you received order BAZ-20250812-00002",
		Confirmation:   &types.DeliveryConfirmation{OrderID: otherOrder, OrderNumber: "BAZ-20250812-00002"},
		CreatedAt:      time.Now().UTC(),
	}
	plainText := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Kind:           enums.MessageKindText,
		Body:           "hello",
		CreatedAt:      time.Now().UTC(),
	}
	for _, message := range []*models.Message{older, newer, unrelated, plainText} {
		require.NoError(t, repo.CreateMessage(ctx, message))
	}

	found, err := repo.LatestConfirmationMessage(ctx, conversation.ID, targetOrder)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, newer.ID, found.ID)
}

func TestLatestConfirmationMessageMissing(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)

	conversation, err := repo.FindOrCreateConversation(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)

	found, err := repo.LatestConfirmationMessage(context.Background(), conversation.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpdateMessageConfirmationInPlace(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreateConversation(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	orderID := uuid.New()
	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Kind:           enums.MessageKindDeliveryConfirmation,
		Body:           "Please confirm you received order BAZ-20250812-00001",
		Confirmation:   &types.DeliveryConfirmation{OrderID: orderID, OrderNumber: "BAZ-20250812-00001"},
	}
	require.NoError(t, repo.CreateMessage(ctx, message))

	respondedAt := time.Now().UTC().Truncate(time.Second)
	message.Confirmation.Confirmed = true
	message.Confirmation.ConfirmedAt = &respondedAt
	require.NoError(t, repo.UpdateMessageConfirmation(ctx, message))

	found, err := repo.LatestConfirmationMessage(ctx, conversation.ID, orderID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, message.ID, found.ID)
	require.NotNil(t, found.Confirmation)
	assert.True(t, found.Confirmation.Confirmed)
	require.NotNil(t, found.Confirmation.ConfirmedAt)
	assert.True(t, found.Confirmation.ConfirmedAt.Equal(respondedAt))

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("conversation_id = ?", conversation.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListMessagesCursor(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreateConversation(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	senderID := uuid.New()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateMessage(ctx, &models.Message{
			ID:             uuid.New(),
			ConversationID: conversation.ID,
			SenderID:       &senderID,
			Kind:           enums.MessageKindText,
			Body:           "message",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	firstPage, cursor, err := repo.ListMessages(ctx, listMessagesParams{ConversationID: conversation.ID, Limit: 3})
	require.NoError(t, err)
	require.Len(t, firstPage, 3)
	require.NotNil(t, cursor)

	secondPage, cursor, err := repo.ListMessages(ctx, listMessagesParams{ConversationID: conversation.ID, Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Nil(t, cursor)
	assert.True(t, firstPage[2].CreatedAt.After(secondPage[0].CreatedAt))
}

func TestTouchConversationStampsLastMessageAt(t *testing.T) {
	db := setupChatTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	conversation, err := repo.FindOrCreateConversation(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, conversation.LastMessageAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchConversation(ctx, conversation.ID, at))

	found, err := repo.GetConversation(ctx, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastMessageAt)
	assert.True(t, found.LastMessageAt.Equal(at))
}
