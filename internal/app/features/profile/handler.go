// internal/app/features/profile/handler.go

// Package profile serves the signed-in account's profile: a completeness
// check used by the SPA before allowing job applications, and the partial
// update endpoint. Email and role are fixed at registration and cannot be
// changed here.
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the profile endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type statusResponse struct {
	Success    bool `json:"success"`
	HasProfile bool `json:"has_profile"`
}

// HandleStatus processes GET /api/profile/status: whether the caller has
// filled in enough profile to apply for jobs.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	account, err := accountstore.New(h.DB).GetByID(ctx, res.AccountID)
	if err != nil {
		if err == accountstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "User not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, statusResponse{Success: true, HasProfile: account.HasProfile()})
}

type updateRequest struct {
	Name       *string                  `json:"name"`
	StudentID  *string                  `json:"student_id"`
	Department *string                  `json:"department"`
	CGPA       *float64                 `json:"cgpa"`
	Skills     *[]string                `json:"skills"`
	Interests  *[]string                `json:"interests"`
	Experience *[]models.WorkExperience `json:"work_experience"`
	Education  *[]models.Education      `json:"education"`
}

type updateResponse struct {
	Success bool           `json:"success"`
	User    models.Account `json:"user"`
}

// HandleUpdate processes PUT /api/profile. Only the caller's own profile
// is reachable; fields absent from the request are left untouched.
// Applications submitted before this edit keep their snapshots.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.CGPA != nil && (*req.CGPA < 0 || *req.CGPA > 4.0) {
		respond.ErrMessage(w, apierr.Validation, "CGPA must be between 0 and 4")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	account, err := accountstore.New(h.DB).UpdateProfile(ctx, res.AccountID, accountstore.ProfileUpdate{
		DisplayName: req.Name,
		StudentID:   req.StudentID,
		Department:  req.Department,
		CGPA:        req.CGPA,
		Skills:      req.Skills,
		Interests:   req.Interests,
		Experience:  req.Experience,
		Education:   req.Education,
	})
	if err != nil {
		if err == accountstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "User not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updateResponse{Success: true, User: account})
}
