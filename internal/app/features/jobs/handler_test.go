package jobs_test

import (
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	jobsfeature "github.com/campusworks/placementhub/internal/app/features/jobs"
	applicationstore "github.com/campusworks/placementhub/internal/app/store/applications"
	jobstore "github.com/campusworks/placementhub/internal/app/store/jobs"
	savedjobstore "github.com/campusworks/placementhub/internal/app/store/savedjobs"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestHandleApply_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := jobsfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recruiter := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	job := fix.CreateJob(ctx, recruiter.ID, "Backend Intern")

	req := testutil.NewAuthenticatedRequest("POST", "/api/jobs/"+job.ID.Hex()+"/apply", testutil.UserFor(student))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	// The application snapshot froze the profile at apply time.
	apps, err := applicationstore.New(db).ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListByJob failed: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	if len(apps[0].ProfileSnapshot.Skills) == 0 {
		t.Errorf("snapshot is missing skills: %+v", apps[0].ProfileSnapshot)
	}

	// Applying again is a conflict.
	req = testutil.NewAuthenticatedRequest("POST", "/api/jobs/"+job.ID.Hex()+"/apply", testutil.UserFor(student))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Already applied to this job")
}

func TestHandleApply_Guards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := jobsfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recruiter := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	bare := fix.CreateBareStudent(ctx, "Bob")
	job := fix.CreateJob(ctx, recruiter.ID, "Backend Intern")

	// Recruiters cannot apply.
	req := testutil.NewAuthenticatedRequest("POST", "/api/jobs/"+job.ID.Hex()+"/apply", testutil.UserFor(recruiter))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// An empty profile blocks the application.
	req = testutil.NewAuthenticatedRequest("POST", "/api/jobs/"+job.ID.Hex()+"/apply", testutil.UserFor(bare))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Complete your profile before applying")

	// A closed posting refuses applications.
	if _, err := jobstore.New(db).SetStatus(ctx, job.ID, "Open", "Closed"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	req = testutil.NewAuthenticatedRequest("POST", "/api/jobs/"+job.ID.Hex()+"/apply", testutil.UserFor(student))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "no longer accepting applications")
}

func TestHandleSetStatus_OwnershipAndTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := jobsfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	rival := fix.CreateRecruiter(ctx, "Roy")
	job := fix.CreateJob(ctx, owner.ID, "Backend Intern")

	// A different recruiter cannot move the status.
	req := testutil.NewAuthenticatedJSONRequest("PATCH", "/api/jobs/"+job.ID.Hex()+"/status",
		`{"status":"Closed"}`, testutil.UserFor(rival))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// The owner closes it.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", "/api/jobs/"+job.ID.Hex()+"/status",
		`{"status":"Closed"}`, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Closed is terminal; reopening is rejected.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", "/api/jobs/"+job.ID.Hex()+"/status",
		`{"status":"Open"}`, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDelete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := jobsfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	job := fix.CreateJob(ctx, owner.ID, "Backend Intern")
	fix.CreateApplication(ctx, job, student)
	if err := savedjobstore.New(db).Add(ctx, student.ID, job.ID); err != nil {
		t.Fatalf("Add saved job failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/jobs/"+job.ID.Hex(), testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "jobId", job.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	if _, err := jobstore.New(db).GetByID(ctx, job.ID); err != jobstore.ErrNotFound {
		t.Errorf("job still present after delete: %v", err)
	}
	apps, err := applicationstore.New(db).ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListByJob failed: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("applications survived the cascade: %d", len(apps))
	}
	saved, err := savedjobstore.New(db).IsSaved(ctx, student.ID, job.ID)
	if err != nil {
		t.Fatalf("IsSaved failed: %v", err)
	}
	if saved {
		t.Errorf("saved-job reference survived the cascade")
	}
}

func TestHandleList_DefaultsToOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := jobsfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	open := fix.CreateJob(ctx, owner.ID, "Open Role")
	closed := fix.CreateJob(ctx, owner.ID, "Closed Role")
	if _, err := jobstore.New(db).SetStatus(ctx, closed.ID, "Open", "Closed"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	rec := testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, testutil.NewRequest("GET", "/api/jobs"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, open.Title)
	if strings.Contains(rec.Body.String(), "Closed Role") {
		t.Errorf("closed posting leaked into the default feed")
	}

	// status=all shows everything.
	rec = testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, testutil.NewRequest("GET", "/api/jobs?status=all"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Closed Role")
}
