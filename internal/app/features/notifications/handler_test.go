package notifications_test

import (
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	notificationsfeature "github.com/campusworks/placementhub/internal/app/features/notifications"
	notificationstore "github.com/campusworks/placementhub/internal/app/store/notifications"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestHandleList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := notificationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	bob := fix.CreateStudent(ctx, "Bob")
	fix.CreateNotification(ctx, alice.ID, "first")
	fix.CreateNotification(ctx, alice.ID, "second")
	fix.CreateNotification(ctx, bob.ID, "not yours")

	rec := testutil.NewRecorder()
	h.HandleList(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/notifications", testutil.UserFor(alice)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "first")
	rec.AssertContains(t, "second")
	rec.AssertContains(t, `"unread":2`)
	if strings.Contains(rec.Body.String(), "not yours") {
		t.Errorf("another account's notification leaked into the list")
	}
}

func TestHandleMarkRead_CrossAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := notificationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	bob := fix.CreateStudent(ctx, "Bob")
	n := fix.CreateNotification(ctx, alice.ID, "for alice")

	// Bob cannot mark Alice's notification; it reads as not found.
	req := testutil.NewAuthenticatedRequest("PATCH", "/api/notifications/"+n.ID.Hex()+"/read", testutil.UserFor(bob))
	req = testutil.WithChiURLParam(req, "notificationId", n.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleMarkRead(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)

	// Alice can.
	req = testutil.NewAuthenticatedRequest("PATCH", "/api/notifications/"+n.ID.Hex()+"/read", testutil.UserFor(alice))
	req = testutil.WithChiURLParam(req, "notificationId", n.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleMarkRead(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	unread, err := notificationstore.New(db).CountUnread(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread after mark: got %d, want 0", unread)
	}
}

func TestHandleMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := notificationsfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	for i := 0; i < 3; i++ {
		fix.CreateNotification(ctx, alice.ID, "ping")
	}

	rec := testutil.NewRecorder()
	h.HandleMarkAllRead(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("PATCH", "/api/notifications/read-all", testutil.UserFor(alice)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"updated":3`)

	rec = testutil.NewRecorder()
	h.HandleUnreadCount(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/notifications/unread", testutil.UserFor(alice)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"unread":0`)
}
