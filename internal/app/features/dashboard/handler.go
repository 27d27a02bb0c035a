// internal/app/features/dashboard/handler.go

// Package dashboard serves the per-account home view and the saved-jobs
// list that hangs off it. Every route is keyed by {userId} and gated to
// the account itself: the path names whose data is read, and only that
// account may read it.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	applicationstore "github.com/campusworks/placementhub/internal/app/store/applications"
	connectionstore "github.com/campusworks/placementhub/internal/app/store/connections"
	jobstore "github.com/campusworks/placementhub/internal/app/store/jobs"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	savedjobstore "github.com/campusworks/placementhub/internal/app/store/savedjobs"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the dashboard endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// summary is the dashboard payload: the account, its application counts,
// and the badge numbers the SPA shows in the header.
type summary struct {
	Success             bool                 `json:"success"`
	User                models.Account       `json:"user"`
	ApplicationCounts   map[string]int64     `json:"application_counts"`
	SavedJobCount       int                  `json:"saved_job_count"`
	ConnectionCount     int64                `json:"connection_count"`
	UnreadNotifications int64                `json:"unread_notifications"`
	RecentApplications  []models.Application `json:"recent_applications"`
}

// HandleSummary processes GET /api/dashboard/{userId}.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireSelf(w, r, chi.URLParam(r, "userId"))
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	apps := applicationstore.New(h.DB)
	counts, err := apps.CountByApplicant(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	recent, err := apps.ListByApplicant(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if recent == nil {
		recent = []models.Application{}
	}

	saved, err := savedjobstore.New(h.DB).List(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	connCount, err := connectionstore.New(h.DB).CountFor(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	unread, err := notificationstore.New(h.DB).CountUnread(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, summary{
		Success:             true,
		User:                account,
		ApplicationCounts:   counts,
		SavedJobCount:       len(saved),
		ConnectionCount:     connCount,
		UnreadNotifications: unread,
		RecentApplications:  recent,
	})
}

type savedJobsResponse struct {
	Success bool                `json:"success"`
	Jobs    []models.JobPosting `json:"jobs"`
}

// HandleListSavedJobs processes GET /api/dashboard/{userId}/saved-jobs,
// resolving the saved IDs to postings. Postings deleted since saving are
// dropped from the view.
func (h *Handler) HandleListSavedJobs(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireSelf(w, r, chi.URLParam(r, "userId"))
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := savedjobstore.New(h.DB).List(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}

	jobs := make([]models.JobPosting, 0, len(ids))
	store := jobstore.New(h.DB)
	for _, id := range ids {
		job, err := store.GetByID(ctx, id)
		if err != nil {
			if err == jobstore.ErrNotFound {
				continue
			}
			respond.Err(w, err)
			return
		}
		jobs = append(jobs, job)
	}
	respond.JSON(w, http.StatusOK, savedJobsResponse{Success: true, Jobs: jobs})
}

type saveJobRequest struct {
	JobID string `json:"job_id"`
}

type saveJobResponse struct {
	Success bool `json:"success"`
}

// HandleSaveJob processes POST /api/dashboard/{userId}/saved-jobs. Saving
// a job twice is reported, not silently absorbed.
func (h *Handler) HandleSaveJob(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireSelf(w, r, chi.URLParam(r, "userId"))
	if !res.OK {
		return
	}
	var req saveJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "Job not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The posting must exist at save time.
	if _, err := jobstore.New(h.DB).GetByID(ctx, jobID); err != nil {
		if err == jobstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Job not found")
			return
		}
		respond.Err(w, err)
		return
	}

	if err := savedjobstore.New(h.DB).Add(ctx, res.AccountID, jobID); err != nil {
		if err == savedjobstore.ErrAlreadySaved {
			respond.ErrMessage(w, apierr.Conflict, err.Error())
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, saveJobResponse{Success: true})
}

// HandleRemoveSavedJob processes DELETE
// /api/dashboard/{userId}/saved-jobs/{jobId}.
func (h *Handler) HandleRemoveSavedJob(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireSelf(w, r, chi.URLParam(r, "userId"))
	if !res.OK {
		return
	}
	jobID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "jobId"))
	if err != nil {
		respond.ErrMessage(w, apierr.NotFound, "Job not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := savedjobstore.New(h.DB).Remove(ctx, res.AccountID, jobID); err != nil {
		if err == savedjobstore.ErrNotSaved {
			respond.ErrMessage(w, apierr.NotFound, "Job is not in your saved list")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, saveJobResponse{Success: true})
}
