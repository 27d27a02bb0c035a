// internal/app/features/notifications/handler.go

// Package notifications serves the in-app notification feed. Writes come
// from the other features; this package only reads and marks.
package notifications

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the notification endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type listResponse struct {
	Success       bool                  `json:"success"`
	Notifications []models.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// HandleList processes GET /api/notifications: the caller's feed, newest
// first, with the unread count alongside.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := notificationstore.New(h.DB)
	items, err := store.ListByRecipient(ctx, res.AccountID, 100)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	unread, err := store.CountUnread(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Notifications: items, Unread: unread})
}

type markResponse struct {
	Success bool `json:"success"`
}

// HandleMarkRead processes PATCH /api/notifications/{notificationId}/read.
// The recipient filter means someone else's notification reads as not
// found rather than forbidden.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "notificationId"))
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "Notification not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := notificationstore.New(h.DB).MarkRead(ctx, id, res.AccountID); err != nil {
		if err == notificationstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Notification not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, markResponse{Success: true})
}

type markAllResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}

// HandleMarkAllRead processes PATCH /api/notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := notificationstore.New(h.DB).MarkAllRead(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, markAllResponse{Success: true, Updated: n})
}

type unreadResponse struct {
	Success bool  `json:"success"`
	Unread  int64 `json:"unread"`
}

// HandleUnreadCount processes GET /api/notifications/unread.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := notificationstore.New(h.DB).CountUnread(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, unreadResponse{Success: true, Unread: n})
}
