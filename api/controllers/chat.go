package controllers

import (
	"net/http"

	"github.com/lucaspaiva/bazario-backend/api/responses"
	"github.com/lucaspaiva/bazario-backend/api/validators"
	"github.com/lucaspaiva/bazario-backend/internal/chat"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
	"github.com/lucaspaiva/bazario-backend/pkg/pagination"
)

type openConversationRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// OpenConversation finds or creates the conversation between the caller and
// another user.
func OpenConversation(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var req openConversationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		otherID, err := parseUUIDField(req.UserID, "user_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if otherID == actor.ID {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a conversation with yourself"))
			return
		}
		conversation, err := svc.FindOrCreateConversation(ctx, actor.ID, otherID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversation)
	}
}

// SendMessage posts a text message into a conversation the caller belongs to.
func SendMessage(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		conversationID, err := parseUUIDParam(r, "conversationID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var req sendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		message, err := svc.SendMessage(ctx, chat.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       actor.ID,
			Body:           req.Body,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ListMessages pages through a conversation's messages, newest first.
func ListMessages(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		conversationID, err := parseUUIDParam(r, "conversationID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.ListMessages(ctx, chat.ListMessagesInput{
			ConversationID: conversationID,
			RequesterID:    actor.ID,
			Limit:          limit,
			Cursor:         r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
