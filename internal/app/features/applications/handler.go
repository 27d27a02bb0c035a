// internal/app/features/applications/handler.go

// Package applications serves the application lifecycle after submission:
// the student's own list, single-application reads, the recruiter's
// status decisions, and the interview handoff for accepted candidates.
//
// Status mutations are gated on ownership of the parent job posting, not
// on the application itself: the applicant owns the record but never
// drives its status.
package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusworks/placementhub/internal/app/policy/statuspolicy"
	applicationstore "github.com/campusworks/placementhub/internal/app/store/applications"
	interviewstore "github.com/campusworks/placementhub/internal/app/store/interviews"
	jobstore "github.com/campusworks/placementhub/internal/app/store/jobs"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the application endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func applicationIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "applicationId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "Application not found")
	}
	return id, nil
}

type listResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
}

// HandleMine processes GET /api/applications: the caller's own
// applications, newest first.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, err := applicationstore.New(h.DB).ListByApplicant(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Applications: apps})
}

// loadVisible fetches the application and its parent job, allowing only
// the applicant and the posting's owner through. Others get Forbidden:
// the record's existence is already known to anyone holding its ID.
func (h *Handler) loadVisible(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID, res gates.Result) (models.Application, models.JobPosting, bool) {
	app, err := applicationstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == applicationstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Application not found")
			return models.Application{}, models.JobPosting{}, false
		}
		respond.Err(w, err)
		return models.Application{}, models.JobPosting{}, false
	}
	job, err := jobstore.New(h.DB).GetByID(ctx, app.JobID)
	if err != nil {
		respond.Err(w, err)
		return models.Application{}, models.JobPosting{}, false
	}
	if res.AccountID != app.ApplicantAccountID && res.AccountID != job.OwnerAccountID {
		respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
		return models.Application{}, models.JobPosting{}, false
	}
	return app, job, true
}

type applicationResponse struct {
	Success     bool               `json:"success"`
	Application models.Application `json:"application"`
}

// HandleGet processes GET /api/applications/{applicationId}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := applicationIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, _, ok := h.loadVisible(ctx, w, id, res)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, applicationResponse{Success: true, Application: app})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus processes PATCH /api/applications/{applicationId}/status.
// Only the owner of the parent posting decides; the applicant is notified
// of every decision.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := applicationIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, job, ok := h.loadVisible(ctx, w, id, res)
	if !ok {
		return
	}
	if res.AccountID != job.OwnerAccountID {
		respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
		return
	}

	updated, err := applicationstore.New(h.DB).SetStatus(ctx, id, app.Status, req.Status)
	if err != nil {
		if err == applicationstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Application not found")
			return
		}
		respond.Err(w, err)
		return
	}

	if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		RecipientAccountID: app.ApplicantAccountID,
		Message:            fmt.Sprintf("Your application for %s is now %s", job.Title, updated.Status),
		Kind:               models.NotifyApplicationStatus,
		Link:               "/applications/" + updated.ID.Hex(),
	}); err != nil {
		h.Log.Warn("status notification failed", zap.Error(err))
	}

	h.Log.Info("application status changed",
		zap.String("application_id", id.Hex()),
		zap.String("from", app.Status),
		zap.String("to", updated.Status))
	respond.JSON(w, http.StatusOK, applicationResponse{Success: true, Application: updated})
}

type interviewRequest struct {
	ScheduledTime time.Time `json:"scheduled_time"`
	MeetingLink   string    `json:"meeting_link"`
}

type interviewResponse struct {
	Success   bool             `json:"success"`
	Interview models.Interview `json:"interview"`
}

// HandleScheduleInterview processes POST
// /api/applications/{applicationId}/interview. The application must be
// Accepted; one interview per application.
func (h *Handler) HandleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := applicationIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req interviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.ScheduledTime.IsZero() || req.ScheduledTime.Before(time.Now()) {
		respond.ErrMessage(w, apierr.Validation, "Scheduled time must be in the future")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	app, job, ok := h.loadVisible(ctx, w, id, res)
	if !ok {
		return
	}
	if res.AccountID != job.OwnerAccountID {
		respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
		return
	}
	if app.Status != statuspolicy.AppAccepted {
		respond.ErrMessage(w, apierr.Conflict, "Only accepted applications can be scheduled")
		return
	}

	iv, err := interviewstore.New(h.DB).Create(ctx, models.Interview{
		ApplicationID:      app.ID,
		JobID:              job.ID,
		ApplicantAccountID: app.ApplicantAccountID,
		RecruiterAccountID: job.OwnerAccountID,
		ScheduledTime:      req.ScheduledTime.UTC(),
		MeetingLink:        req.MeetingLink,
	})
	if err != nil {
		if err == interviewstore.ErrAlreadyScheduled {
			respond.ErrMessage(w, apierr.Conflict, err.Error())
			return
		}
		respond.Err(w, err)
		return
	}

	if _, err := notificationstore.New(h.DB).Create(ctx, models.Notification{
		RecipientAccountID: app.ApplicantAccountID,
		Message:            fmt.Sprintf("Interview scheduled for %s on %s", job.Title, iv.ScheduledTime.Format(time.RFC1123)),
		Kind:               models.NotifyInterviewScheduled,
		Link:               "/applications/" + app.ID.Hex(),
	}); err != nil {
		h.Log.Warn("interview notification failed", zap.Error(err))
	}

	respond.JSON(w, http.StatusCreated, interviewResponse{Success: true, Interview: iv})
}

type interviewsResponse struct {
	Success    bool               `json:"success"`
	Interviews []models.Interview `json:"interviews"`
}

// HandleMyInterviews processes GET /api/applications/interviews: the
// caller's scheduled interviews, soonest first.
func (h *Handler) HandleMyInterviews(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ivs, err := interviewstore.New(h.DB).ListByApplicant(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if ivs == nil {
		ivs = []models.Interview{}
	}
	respond.JSON(w, http.StatusOK, interviewsResponse{Success: true, Interviews: ivs})
}
