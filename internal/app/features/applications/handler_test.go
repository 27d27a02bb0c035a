package applications_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	applicationsfeature "github.com/campusworks/placementhub/internal/app/features/applications"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestHandleSetStatus_OwnerDecides(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := applicationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	job := fix.CreateJob(ctx, owner.ID, "Backend Intern")
	app := fix.CreateApplication(ctx, job, student)

	target := "/api/applications/" + app.ID.Hex() + "/status"

	// The applicant cannot decide their own status.
	req := testutil.NewAuthenticatedJSONRequest("PATCH", target, `{"status":"Accepted"}`, testutil.UserFor(student))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// The owner accepts, and the applicant is notified.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", target, `{"status":"Accepted"}`, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"Accepted"`)

	notifs, err := notificationstore.New(db).ListByRecipient(ctx, student.ID, 10)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	found := false
	for _, n := range notifs {
		if strings.Contains(n.Message, "Accepted") {
			found = true
		}
	}
	if !found {
		t.Errorf("applicant was not notified of the decision: %+v", notifs)
	}

	// Accepted is terminal.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", target, `{"status":"Rejected"}`, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleScheduleInterview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := applicationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	job := fix.CreateJob(ctx, owner.ID, "Backend Intern")
	app := fix.CreateApplication(ctx, job, student)

	target := "/api/applications/" + app.ID.Hex() + "/interview"
	when := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"scheduled_time":%q,"meeting_link":"https://meet.example.com/x"}`, when)

	// A Pending application cannot be scheduled.
	req := testutil.NewAuthenticatedJSONRequest("POST", target, body, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleScheduleInterview(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Only accepted applications")

	// Accept it first.
	req = testutil.NewAuthenticatedJSONRequest("PATCH", "/api/applications/"+app.ID.Hex()+"/status",
		`{"status":"Accepted"}`, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// Now scheduling works.
	req = testutil.NewAuthenticatedJSONRequest("POST", target, body, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleScheduleInterview(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	// One interview per application.
	req = testutil.NewAuthenticatedJSONRequest("POST", target, body, testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleScheduleInterview(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "already scheduled")

	// A past time is rejected up front.
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	req = testutil.NewAuthenticatedJSONRequest("POST", target,
		fmt.Sprintf(`{"scheduled_time":%q}`, past), testutil.UserFor(owner))
	req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleScheduleInterview(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// The student sees it on their interview list.
	rec = testutil.NewRecorder()
	h.HandleMyInterviews(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/applications/interviews", testutil.UserFor(student)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "meet.example.com")
}

func TestHandleGet_Visibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := applicationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fix.CreateRecruiter(ctx, "Rex")
	student := fix.CreateStudent(ctx, "Alice")
	stranger := fix.CreateStudent(ctx, "Bob")
	job := fix.CreateJob(ctx, owner.ID, "Backend Intern")
	app := fix.CreateApplication(ctx, job, student)

	target := "/api/applications/" + app.ID.Hex()
	for _, tc := range []struct {
		user testutil.TestUser
		want int
	}{
		{testutil.UserFor(student), http.StatusOK},
		{testutil.UserFor(owner), http.StatusOK},
		{testutil.UserFor(stranger), http.StatusForbidden},
	} {
		req := testutil.NewAuthenticatedRequest("GET", target, tc.user)
		req = testutil.WithChiURLParam(req, "applicationId", app.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleGet(rec.ResponseRecorder, req)
		rec.AssertStatus(t, tc.want)
	}
}
