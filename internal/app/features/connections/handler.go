// internal/app/features/connections/handler.go

// Package connections manages the professional-network edges between
// accounts: connect, disconnect, list, and the people search used to
// find someone to connect with.
package connections

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	connectionstore "github.com/campusworks/placementhub/internal/app/store/connections"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the connection endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// person is the trimmed account shape shown in connection lists and
// people search. No email, no profile internals.
type person struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"display_name"`
	Role        string             `json:"role"`
	Department  string             `json:"department,omitempty"`
}

func personOf(a models.Account) person {
	return person{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Department:  a.Department,
	}
}

type connectRequest struct {
	AccountID string `json:"account_id"`
}

type connectResponse struct {
	Success    bool                  `json:"success"`
	Connection models.ConnectionEdge `json:"connection"`
}

// HandleConnect processes POST /api/connections. The edge is symmetric;
// either side may later remove it.
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	other, err := primitive.ObjectIDFromHex(req.AccountID)
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The target must be a real account before an edge is created.
	if _, err := accountstore.New(h.DB).GetByID(ctx, other); err != nil {
		if err == accountstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "User not found")
			return
		}
		respond.Err(w, err)
		return
	}

	edge, err := connectionstore.New(h.DB).Connect(ctx, res.AccountID, other)
	if err != nil {
		switch err {
		case connectionstore.ErrSelfConnection:
			respond.ErrMessage(w, apierr.Validation, err.Error())
		case connectionstore.ErrAlreadyConnected:
			respond.ErrMessage(w, apierr.Conflict, err.Error())
		default:
			respond.Err(w, err)
		}
		return
	}

	if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		RecipientAccountID: other,
		Message:            fmt.Sprintf("%s connected with you", res.Name),
		Kind:               models.NotifyConnection,
		Link:               "/network",
	}); err != nil {
		h.Log.Warn("connection notification failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusCreated, connectResponse{Success: true, Connection: edge})
}

type disconnectResponse struct {
	Success bool `json:"success"`
}

// HandleDisconnect processes DELETE /api/connections/{accountId}.
func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	other, err := primitive.ObjectIDFromHex(chi.URLParam(r, "accountId"))
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := connectionstore.New(h.DB).Disconnect(ctx, res.AccountID, other); err != nil {
		if err == connectionstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Connection not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, disconnectResponse{Success: true})
}

type listResponse struct {
	Success     bool     `json:"success"`
	Connections []person `json:"connections"`
}

// HandleList processes GET /api/connections: the caller's connections,
// newest first, resolved to people. Accounts deleted since connecting
// are skipped.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	edges, err := connectionstore.New(h.DB).ListFor(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(edges))
	for _, e := range edges {
		if other := e.Other(res.AccountID); !other.IsZero() {
			ids = append(ids, other)
		}
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

	people := make([]person, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			people = append(people, personOf(a))
		}
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Connections: people})
}

type searchResponse struct {
	Success bool     `json:"success"`
	Users   []person `json:"users"`
}

// HandleSearch processes GET /api/connections/search?q=. Prefix match on
// display name, case and accent insensitive. The caller is excluded from
// their own results.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.ErrMessage(w, apierr.Validation, "Search query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	accounts, err := accountstore.New(h.DB).SearchByName(ctx, q, 20)
	if err != nil {
		respond.Err(w, err)
		return
	}
	people := make([]person, 0, len(accounts))
	for _, a := range accounts {
		if a.ID == res.AccountID {
			continue
		}
		people = append(people, personOf(a))
	}
	respond.JSON(w, http.StatusOK, searchResponse{Success: true, Users: people})
}
