// internal/app/features/jobs/handler.go

// Package jobs serves the job board: public browse/search, recruiter
// posting CRUD with the Open/Closed/Filled lifecycle, and the student
// apply flow that freezes a profile snapshot into each application.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campusworks/placementhub/internal/app/policy/ownerpolicy"
	"github.com/campusworks/placementhub/internal/app/policy/statuspolicy"
	accountstore "github.com/campusworks/placementhub/internal/app/store/accounts"
	applicationstore "github.com/campusworks/placementhub/internal/app/store/applications"
	jobstore "github.com/campusworks/placementhub/internal/app/store/jobs"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	savedjobstore "github.com/campusworks/placementhub/internal/app/store/savedjobs"
	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/app/system/timeouts"
	"github.com/campusworks/placementhub/internal/app/system/txn"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Handler owns the job board endpoints. Client is needed alongside DB
// because the posting delete cascade tries a transaction first.
type Handler struct {
	DB     *mongo.Database
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a Handler bound to the given database and logger.
func NewHandler(db *mongo.Database, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Client: client, Log: logger}
}

func jobIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "jobId"))
	if err != nil {
		return primitive.NilObjectID, apierr.New(apierr.NotFound, "Job not found")
	}
	return id, nil
}

type listResponse struct {
	Success bool                `json:"success"`
	Jobs    []models.JobPosting `json:"jobs"`
}

// HandleList processes GET /api/jobs. Visitors see the Open feed; the
// keyword, location, and status query parameters narrow it.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	jobs, err := jobstore.New(h.DB).Search(ctx, jobstore.SearchFilter{
		Keyword:  q.Get("keyword"),
		Location: q.Get("location"),
		Status:   q.Get("status"),
	}, 200)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Jobs: jobs})
}

// HandleMine processes GET /api/jobs/mine: the recruiter's own postings,
// whatever their status.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireRole(w, r, models.RoleRecruiter, models.RoleAdmin)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	jobs, err := jobstore.New(h.DB).ListByOwner(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Jobs: jobs})
}

type jobResponse struct {
	Success bool              `json:"success"`
	Job     models.JobPosting `json:"job"`
}

// HandleGet processes GET /api/jobs/{jobId}. Closed and Filled postings
// stay readable when addressed directly.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := jobIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	job, err := jobstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == jobstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Job not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, jobResponse{Success: true, Job: job})
}

type createRequest struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	RequiredSkills []string `json:"required_skills"`
	SalaryMin      int      `json:"salary_min"`
	SalaryMax      int      `json:"salary_max"`
}

// HandleCreate processes POST /api/jobs. Recruiters only; the new posting
// opens owned by the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireRole(w, r, models.RoleRecruiter, models.RoleAdmin)
	if !res.OK {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}
	if req.Title == "" || req.Company == "" {
		respond.ErrMessage(w, apierr.Validation, "Title and company are required")
		return
	}
	if req.SalaryMin < 0 || req.SalaryMax < 0 || (req.SalaryMax > 0 && req.SalaryMin > req.SalaryMax) {
		respond.ErrMessage(w, apierr.Validation, "Salary range is invalid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	job, err := jobstore.New(h.DB).Create(ctx, models.JobPosting{
		Title:          req.Title,
		Company:        req.Company,
		OwnerAccountID: res.AccountID,
		Description:    req.Description,
		Location:       req.Location,
		RequiredSkills: req.RequiredSkills,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	h.Log.Info("job posted",
		zap.String("job_id", job.ID.Hex()),
		zap.String("owner", res.AccountID.Hex()))
	respond.JSON(w, http.StatusCreated, jobResponse{Success: true, Job: job})
}

// loadOwnedJob fetches the posting and authorizes the caller for the
// action. It writes the error response itself on failure.
func (h *Handler) loadOwnedJob(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID, res gates.Result, action ownerpolicy.Action) (models.JobPosting, bool) {
	job, err := jobstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == jobstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Job not found")
			return models.JobPosting{}, false
		}
		respond.Err(w, err)
		return models.JobPosting{}, false
	}
	if err := ownerpolicy.Authorize(res.AccountID, res.Role, job, action); err != nil {
		respond.Err(w, err)
		return models.JobPosting{}, false
	}
	return job, true
}

type updateRequest struct {
	Title          *string   `json:"title"`
	Company        *string   `json:"company"`
	Description    *string   `json:"description"`
	Location       *string   `json:"location"`
	RequiredSkills *[]string `json:"required_skills"`
	SalaryMin      *int      `json:"salary_min"`
	SalaryMax      *int      `json:"salary_max"`
}

// HandleUpdate processes PUT /api/jobs/{jobId}. Owner only; status is not
// editable here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := jobIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrMessage(w, apierr.Validation, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.loadOwnedJob(ctx, w, id, res, ownerpolicy.ActionUpdate); !ok {
		return
	}

	job, err := jobstore.New(h.DB).UpdateContent(ctx, id, jobstore.ContentUpdate{
		Title:          req.Title,
		Company:        req.Company,
		Description:    req.Description,
		Location:       req.Location,
		RequiredSkills: req.RequiredSkills,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, jobResponse{Success: true, Job: job})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus processes PATCH /api/jobs/{jobId}/status: Open -> Closed
// or Open -> Filled, owner only, both moves terminal.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := jobIDParam(r)
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

	job, ok := h.loadOwnedJob(ctx, w, id, res, ownerpolicy.ActionUpdate)
	if !ok {
		return
	}

	updated, err := jobstore.New(h.DB).SetStatus(ctx, id, job.Status, req.Status)
	if err != nil {
		if err == jobstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Job not found")
			return
		}
		respond.Err(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, jobResponse{Success: true, Job: updated})
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// HandleDelete processes DELETE /api/jobs/{jobId}. The posting, its
// applications, and its saved-job references go together; a transaction
// is used when the server supports one, otherwise the writes run
// sequentially with the posting removed last.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := jobIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, ok := h.loadOwnedJob(ctx, w, id, res, ownerpolicy.ActionDelete); !ok {
		return
	}

	cascade := func(ctx context.Context) error {
		if _, err := applicationstore.New(h.DB).DeleteByJob(ctx, id); err != nil {
			return err
		}
		if _, err := savedjobstore.New(h.DB).RemoveJobEverywhere(ctx, id); err != nil {
			return err
		}
		_, err := jobstore.New(h.DB).Delete(ctx, id)
		return err
	}

	err = txn.WithTransaction(ctx, h.Client, cascade)
	if err != nil && txn.IsNotSupported(err) {
		h.Log.Warn("transactions unavailable, deleting job sequentially",
			zap.String("job_id", id.Hex()))
		err = cascade(ctx)
	}
	if err != nil {
		respond.Err(w, err)
		return
	}
	h.Log.Info("job deleted", zap.String("job_id", id.Hex()))
	respond.JSON(w, http.StatusOK, deleteResponse{Success: true})
}

type applyResponse struct {
	Success     bool               `json:"success"`
	Application models.Application `json:"application"`
}

// HandleApply processes POST /api/jobs/{jobId}/apply. Students only, the
// posting must be Open, and the applicant needs a filled profile; the
// profile is snapshotted into the application as it stands right now.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireRole(w, r, models.RoleStudent)
	if !res.OK {
		return
	}
	id, err := jobIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	job, err := jobstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == jobstore.ErrNotFound {
			respond.ErrMessage(w, apierr.NotFound, "Job not found")
			return
		}
		respond.Err(w, err)
		return
	}
	if job.Status != statuspolicy.JobOpen {
		respond.ErrMessage(w, apierr.Conflict, "This job is no longer accepting applications")
		return
	}

	applicant, err := accountstore.New(h.DB).GetByID(ctx, res.AccountID)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if !applicant.HasProfile() {
		respond.ErrMessage(w, apierr.Validation, "Complete your profile before applying")
		return
	}

	app, err := applicationstore.New(h.DB).Create(ctx, models.Application{
		JobID:              job.ID,
		ApplicantAccountID: applicant.ID,
		ProfileSnapshot:    models.SnapshotOf(applicant),
	})
	if err != nil {
		if err == applicationstore.ErrAlreadyApplied {
			respond.ErrMessage(w, apierr.Conflict, err.Error())
			return
		}
		respond.Err(w, err)
		return
	}

	// Notifications are best-effort: the application stands either way.
	notifs := notificationstore.New(h.DB)
	if _, err := notifs.Create(ctx, models.Notification{
		RecipientAccountID: applicant.ID,
		Message:            fmt.Sprintf("You applied to %s at %s", job.Title, job.Company),
		Kind:               models.NotifyApplicationSubmitted,
		Link:               "/jobs/" + job.ID.Hex(),
	}); err != nil {
		h.Log.Warn("applicant notification failed", zap.Error(err))
	}
	if _, err := notifs.Create(ctx, models.Notification{
		RecipientAccountID: job.OwnerAccountID,
		Message:            fmt.Sprintf("%s applied to %s", applicant.DisplayName, job.Title),
		Kind:               models.NotifyApplicationReceived,
		Link:               "/jobs/" + job.ID.Hex() + "/applicants",
	}); err != nil {
		h.Log.Warn("recruiter notification failed", zap.Error(err))
	}

	h.Log.Info("application submitted",
		zap.String("job_id", job.ID.Hex()),
		zap.String("applicant", applicant.ID.Hex()))
	respond.JSON(w, http.StatusCreated, applyResponse{Success: true, Application: app})
}

type applicantsResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
}

// HandleApplicants processes GET /api/jobs/{jobId}/applicants. Owner only;
// each application carries the snapshot taken when it was submitted.
func (h *Handler) HandleApplicants(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	id, err := jobIDParam(r)
	if err != nil {
		respond.Err(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.loadOwnedJob(ctx, w, id, res, ownerpolicy.ActionUpdate); !ok {
		return
	}

	apps, err := applicationstore.New(h.DB).ListByJob(ctx, id)
	if err != nil {
		respond.Err(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	respond.JSON(w, http.StatusOK, applicantsResponse{Success: true, Applications: apps})
}
