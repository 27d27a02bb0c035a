// internal/app/features/reviews/handler.go

// Package reviews serves company reviews: students rate companies 1 to 5
// with an optional write-up. Authors own their reviews; admins may delete
// any review for moderation.
package reviews

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusworks/placementhub/internal/app/policy/ownerpolicy"
	reviewstore "github.com/campusworks/placementhub/internal/app/store/reviews"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the review endpoints.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	sanitize *bluemonday.Policy
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, sanitize: bluemonday.UGCPolicy()}
}

func reviewIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "Review not found")
	}
	return id, nil
}

func validRating(n int) bool { return n >= 1 && n <= 5 }

type reviewRequest struct {
	Company string `json:"company"`
	Rating  int    `json:"rating"`
	Body    string `json:"body"`
}

type reviewResponse struct {
	Success bool                 `json:"success"`
	Review  models.CompanyReview `json:"review"`
}

// HandleCreate processes POST /api/reviews. Students only; recruiters
// reviewing companies would be rating themselves.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireRole(w, r, models.RoleStudent)
	if !res.OK {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Company == "" {
		respond.ErrMessage(w, apierr.Validation, "Company is required")
		return
	}
	if !validRating(req.Rating) {
		respond.ErrMessage(w, apierr.Validation, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	review, err := reviewstore.New(h.DB).Create(ctx, models.CompanyReview{
		AuthorAccountID: res.AccountID,
		AuthorName:      res.Name,
		Company:         req.Company,
		Rating:          req.Rating,
		Body:            h.sanitize.Sanitize(req.Body),
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, reviewResponse{Success: true, Review: review})
}

type listResponse struct {
	Success bool                   `json:"success"`
	Reviews []models.CompanyReview `json:"reviews"`
}

// HandleList processes GET /api/reviews?company=. Without a company it
// lists the latest reviews across all companies.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reviews, err := reviewstore.New(h.DB).ListByCompany(ctx, r.URL.Query().Get("company"), 100)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.CompanyReview{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Reviews: reviews})
}

type ratingResponse struct {
	Success bool    `json:"success"`
	Company string  `json:"company"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// HandleCompanyRating processes GET /api/reviews/rating?company=.
func (h *Handler) HandleCompanyRating(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		respond.ErrMessage(w, apierr.Validation, "Company is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	avg, n, err := reviewstore.New(h.DB).AverageRating(ctx, company)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ratingResponse{Success: true, Company: company, Average: avg, Count: n})
}

type updateRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// HandleUpdate processes PUT /api/reviews/{reviewId}. Author only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := reviewIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if !validRating(req.Rating) {
		respond.ErrMessage(w, apierr.Validation, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := reviewstore.New(h.DB)
	review, err := store.GetByID(ctx, id)
	if err != nil {
		if err == reviewstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Review not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, review, ownerpolicy.ActionUpdate); err != nil {
		respond.Err(w, err)
		return
	}

	updated, err := store.Update(ctx, id, req.Rating, h.sanitize.Sanitize(req.Body))
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, reviewResponse{Success: true, Review: updated})
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// HandleDelete processes DELETE /api/reviews/{reviewId}. Author or admin.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := reviewIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := reviewstore.New(h.DB)
	review, err := store.GetByID(ctx, id)
	if err != nil {
		if err == reviewstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Review not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, review, ownerpolicy.ActionDelete); err != nil {
		respond.Err(w, err)
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		respond.Err(w, err)
		return
	}
	h.Log.Info("review deleted",
		zap.String("review_id", id.Hex()),
		zap.String("by", res.AccountID.Hex()),
		zap.String("role", res.Role))
	respond.JSON(w, http.StatusOK, deleteResponse{Success: true})
}
