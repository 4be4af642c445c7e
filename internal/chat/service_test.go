package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucaspaiva/bazario-backend/pkg/db/models"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
	"github.com/lucaspaiva/bazario-backend/pkg/types"
)

type fakeRepository struct {
	findOrCreateFn func(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	getFn          func(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	createMsgFn    func(ctx context.Context, message *models.Message) error
	listFn         func(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error)
	latestFn       func(ctx context.Context, conversationID, orderID uuid.UUID) (*models.Message, error)
	updateFn       func(ctx context.Context, message *models.Message) error
	touched        int
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	if f.findOrCreateFn != nil {
		return f.findOrCreateFn(ctx, userA, userB)
	}
	return &models.Conversation{ID: uuid.New()}, nil
}

func (f *fakeRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if f.createMsgFn != nil {
		return f.createMsgFn(ctx, message)
	}
	return nil
}

func (f *fakeRepository) ListMessages(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) LatestConfirmationMessage(ctx context.Context, conversationID, orderID uuid.UUID) (*models.Message, error) {
	if f.latestFn != nil {
		return f.latestFn(ctx, conversationID, orderID)
	}
	return nil, nil
}

func (f *fakeRepository) UpdateMessageConfirmation(ctx context.Context, message *models.Message) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, message)
	}
	return nil
}

func (f *fakeRepository) TouchConversation(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	f.touched++
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newChatService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, fakeTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestFindOrCreateConversationRejectsSelf(t *testing.T) {
	svc := newChatService(t, &fakeRepository{})
	id := uuid.New()

	_, err := svc.FindOrCreateConversation(context.Background(), id, id)
	if err == nil {
		t.Fatal("expected self-conversation to be rejected")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFindOrCreateConversationNormalizesPair(t *testing.T) {
	a := uuid.MustParse("ffffffff-0000-0000-0000-000000000000")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	low, high := NormalizePair(a, b)
	if low != b || high != a {
		t.Fatalf("expected (b, a) ordering, got (%s, %s)", low, high)
	}

	low2, high2 := NormalizePair(b, a)
	if low2 != low || high2 != high {
		t.Fatal("pair ordering must not depend on argument order")
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	conversation := &models.Conversation{
		ID:              uuid.New(),
		ParticipantLow:  uuid.New(),
		ParticipantHigh: uuid.New(),
	}
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
			return conversation, nil
		},
	}
	svc := newChatService(t, repo)

	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		ConversationID: conversation.ID,
		SenderID:       uuid.New(),
		Body:           "hi",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestSendMessageAppendsAndTouches(t *testing.T) {
	sender := uuid.New()
	conversation := &models.Conversation{
		ID:              uuid.New(),
		ParticipantLow:  sender,
		ParticipantHigh: uuid.New(),
	}
	var created *models.Message
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
			return conversation, nil
		},
		createMsgFn: func(ctx context.Context, message *models.Message) error {
			created = message
			return nil
		},
	}
	svc := newChatService(t, repo)

	msg, err := svc.SendMessage(context.Background(), SendMessageInput{
		ConversationID: conversation.ID,
		SenderID:       sender,
		Body:           "  is this still available?  ",
	})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if created == nil {
		t.Fatal("expected message to be persisted")
	}
	if msg.Body != "is this still available?" {
		t.Fatalf("expected trimmed body, got %q", msg.Body)
	}
	if msg.SenderID == nil || *msg.SenderID != sender {
		t.Fatal("sender not recorded")
	}
	if repo.touched != 1 {
		t.Fatalf("expected conversation touch, got %d", repo.touched)
	}
}

func TestPostSystemMessageHasNoSender(t *testing.T) {
	repo := &fakeRepository{}
	svc := newChatService(t, repo)

	msg, err := svc.PostSystemMessage(context.Background(), uuid.New(), "Order BAZ-20250812-00001 confirmed")
	if err != nil {
		t.Fatalf("post system message: %v", err)
	}
	if msg.SenderID != nil {
		t.Fatal("system messages must not carry a sender")
	}
}

func TestPostDeliveryConfirmationCarriesPayload(t *testing.T) {
	repo := &fakeRepository{}
	svc := newChatService(t, repo)

	orderID := uuid.New()
	msg, err := svc.PostDeliveryConfirmation(context.Background(), uuid.New(), types.DeliveryConfirmation{
		OrderID:     orderID,
		OrderNumber: "BAZ-20250812-00001",
	})
	if err != nil {
		t.Fatalf("post delivery confirmation: %v", err)
	}
	if msg.Confirmation == nil || msg.Confirmation.OrderID != orderID {
		t.Fatal("confirmation payload missing")
	}
	if msg.Confirmation.Confirmed {
		t.Fatal("confirmation must start unconfirmed")
	}
}

func TestResolveDeliveryConfirmationUpdatesInPlace(t *testing.T) {
	orderID := uuid.New()
	messageID := uuid.New()
	existing := &models.Message{
		ID: messageID,
		Confirmation: &types.DeliveryConfirmation{
			OrderID:     orderID,
			OrderNumber: "BAZ-20250812-00001",
		},
	}
	var updated *models.Message
	repo := &fakeRepository{
		latestFn: func(ctx context.Context, conversationID, oid uuid.UUID) (*models.Message, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, message *models.Message) error {
			updated = message
			return nil
		},
	}
	svc := newChatService(t, repo)

	at := time.Now().UTC()
	if err := svc.SetDeliveryConfirmation(context.Background(), uuid.New(), orderID, true, at); err != nil {
		t.Fatalf("resolve confirmation: %v", err)
	}
	if updated == nil {
		t.Fatal("expected message update")
	}
	if updated.ID != messageID {
		t.Fatal("must update the existing message, not create a new one")
	}
	if !updated.Confirmation.Confirmed || updated.Confirmation.ConfirmedAt == nil {
		t.Fatal("confirmation flags not set")
	}
}

func TestResolveDeliveryConfirmationIdempotent(t *testing.T) {
	at := time.Now().UTC()
	existing := &models.Message{
		ID: uuid.New(),
		Confirmation: &types.DeliveryConfirmation{
			OrderID:     uuid.New(),
			Confirmed:   true,
			ConfirmedAt: &at,
		},
	}
	updates := 0
	repo := &fakeRepository{
		latestFn: func(ctx context.Context, conversationID, oid uuid.UUID) (*models.Message, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, message *models.Message) error {
			updates++
			return nil
		},
	}
	svc := newChatService(t, repo)

	if err := svc.SetDeliveryConfirmation(context.Background(), uuid.New(), existing.Confirmation.OrderID, true, time.Now()); err != nil {
		t.Fatalf("resolve confirmation: %v", err)
	}
	if updates != 0 {
		t.Fatal("already-confirmed message must not be rewritten")
	}
}

func TestSetDeliveryConfirmationDenialClearsTimestamp(t *testing.T) {
	orderID := uuid.New()
	existing := &models.Message{
		ID: uuid.New(),
		Confirmation: &types.DeliveryConfirmation{
			OrderID:     orderID,
			OrderNumber: "BAZ-20250812-00001",
		},
	}
	var updated *models.Message
	repo := &fakeRepository{
		latestFn: func(ctx context.Context, conversationID, oid uuid.UUID) (*models.Message, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, message *models.Message) error {
			updated = message
			return nil
		},
	}
	svc := newChatService(t, repo)

	if err := svc.SetDeliveryConfirmation(context.Background(), uuid.New(), orderID, false, time.Now()); err != nil {
		t.Fatalf("deny confirmation: %v", err)
	}
	if updated == nil {
		t.Fatal("expected message update")
	}
	if updated.Confirmation.Confirmed || updated.Confirmation.ConfirmedAt != nil {
		t.Fatal("denied confirmation must stay unconfirmed without a timestamp")
	}
}

func TestResolveDeliveryConfirmationMissingMessage(t *testing.T) {
	repo := &fakeRepository{}
	svc := newChatService(t, repo)

	err := svc.SetDeliveryConfirmation(context.Background(), uuid.New(), uuid.New(), true, time.Now())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMessagesPaginates(t *testing.T) {
	requester := uuid.New()
	conversation := &models.Conversation{
		ID:              uuid.New(),
		ParticipantLow:  requester,
		ParticipantHigh: uuid.New(),
	}
	next := pagination.Cursor{CreatedAt: time.Now(), ID: uuid.New()}
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
			return conversation, nil
		},
		listFn: func(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error) {
			return []models.Message{{ID: uuid.New()}}, &next, nil
		},
	}
	svc := newChatService(t, repo)

	result, err := svc.ListMessages(context.Background(), ListMessagesInput{
		ConversationID: conversation.ID,
		RequesterID:    requester,
		Limit:          1,
	})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected next-page cursor")
	}
}

func TestListMessagesDependencyError(t *testing.T) {
	requester := uuid.New()
	conversation := &models.Conversation{ID: uuid.New(), ParticipantLow: requester, ParticipantHigh: uuid.New()}
	repo := &fakeRepository{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
			return conversation, nil
		},
		listFn: func(ctx context.Context, params listMessagesParams) ([]models.Message, *pagination.Cursor, error) {
			return nil, nil, errors.New("boom")
		},
	}
	svc := newChatService(t, repo)

	_, err := svc.ListMessages(context.Background(), ListMessagesInput{ConversationID: conversation.ID, RequesterID: requester})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
