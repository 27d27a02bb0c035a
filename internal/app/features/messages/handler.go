// internal/app/features/messages/handler.go

// Package messages serves direct messaging between connected accounts.
// A conversation is the message stream between one unordered pair; you
// must be connected to someone before you can message them.
package messages

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	connectionstore "github.com/campusworks/placementhub/internal/app/store/connections"
	messagestore "github.com/campusworks/placementhub/internal/app/store/messages"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the messaging endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func otherIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "accountId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "User not found")
	}
	return id, nil
}

type sendRequest struct {
	ToAccountID string `json:"to_account_id"`
	Body        string `json:"body"`
}

type sendResponse struct {
	Success bool           `json:"success"`
	Message models.Message `json:"message"`
}

// HandleSend processes POST /api/messages. Sender and recipient must be
// connected.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Body == "" {
		respond.ErrMessage(w, apierr.Validation, "Message body is required")
		return
	}
	to, err := primitive.ObjectIDFromHex(req.ToAccountID)
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "User not found")
		return
	}
	if to == res.AccountID {
		respond.ErrMessage(w, apierr.Validation, messagestore.ErrSelfMessage.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	connected, err := connectionstore.New(h.DB).AreConnected(ctx, res.AccountID, to)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if !connected {
		respond.ErrMessage(w, apierr.Forbidden, "You can only message your connections")
		return
	}

	msg, err := messagestore.New(h.DB).Send(ctx, res.AccountID, to, req.Body)
	if err != nil {
		if err == messagestore.ErrSelfMessage {
			respond.ErrMessage(w, apierr.Validation, err.Error())
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, sendResponse{Success: true, Message: msg})
}

type conversationResponse struct {
	Success  bool             `json:"success"`
	Messages []models.Message `json:"messages"`
}

// HandleConversation processes GET /api/messages/{accountId}: the thread
// with that account, oldest first. Reading marks the other side's
// messages as read.
func (h *Handler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	other, err := otherIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := messagestore.New(h.DB)
	msgs, err := store.Conversation(ctx, res.AccountID, other, 200)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	if _, err := store.MarkConversationRead(ctx, res.AccountID, other); err != nil {
		h.Log.Warn("mark conversation read failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, conversationResponse{Success: true, Messages: msgs})
}

type conversationHead struct {
	PartnerAccountID string         `json:"partner_account_id"`
	PartnerName      string         `json:"partner_name"`
	LastMessage      models.Message `json:"last_message"`
	Unread           int64          `json:"unread"`
}

type conversationListResponse struct {
	Success       bool               `json:"success"`
	Conversations []conversationHead `json:"conversations"`
}

// HandleListConversations processes GET /api/messages: one entry per
// thread, most recently active first. Threads whose partner account has
// been deleted are skipped.
func (h *Handler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	heads, err := messagestore.New(h.DB).ListConversations(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(heads))
	for _, head := range heads {
		ids = append(ids, head.PartnerAccountID)
	}
	accounts, err := accountstore.New(h.DB).GetMany(ctx, ids)
	if err != nil {
		respond.Err(w, err)
		return
	}
	byID := make(map[primitive.ObjectID]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	out := make([]conversationHead, 0, len(heads))
	for _, head := range heads {
		partner, ok := byID[head.PartnerAccountID]
		if !ok {
			continue
		}
		out = append(out, conversationHead{
			PartnerAccountID: partner.ID.Hex(),
			PartnerName:      partner.DisplayName,
			LastMessage:      head.LastMessage,
			Unread:           head.Unread,
		})
	}
	respond.JSON(w, http.StatusOK, conversationListResponse{Success: true, Conversations: out})
}

type unreadResponse struct {
	Success bool  `json:"success"`
	Unread  int64 `json:"unread"`
}

// HandleUnreadCount processes GET /api/messages/unread.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := messagestore.New(h.DB).CountUnread(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, unreadResponse{Success: true, Unread: n})
}
