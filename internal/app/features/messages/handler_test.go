package messages_test

import (
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	messagesfeature "github.com/campusworks/placementhub/internal/app/features/messages"
	connectionstore "github.com/campusworks/placementhub/internal/app/store/connections"
	messagestore "github.com/campusworks/placementhub/internal/app/store/messages"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestHandleSend_RequiresConnection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := messagesfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	rex := fix.CreateRecruiter(ctx, "Rex")

	body := fmt.Sprintf(`{"to_account_id":%q,"body":"hello"}`, rex.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/messages", body, testutil.UserFor(alice))
	rec := testutil.NewRecorder()
	h.HandleSend(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "only message your connections")

	if _, err := connectionstore.New(db).Connect(ctx, alice.ID, rex.ID); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	req = testutil.NewAuthenticatedJSONRequest("POST", "/api/messages", body, testutil.UserFor(alice))
	rec = testutil.NewRecorder()
	h.HandleSend(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)
}

func TestHandleConversation_MarksRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := messagesfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	rex := fix.CreateRecruiter(ctx, "Rex")
	if _, err := connectionstore.New(db).Connect(ctx, alice.ID, rex.ID); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	store := messagestore.New(db)
	if _, err := store.Send(ctx, alice.ID, rex.ID, "hi Rex"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := store.Send(ctx, alice.ID, rex.ID, "are you there"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// Rex has two unread messages.
	rec := testutil.NewRecorder()
	h.HandleUnreadCount(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/messages/unread", testutil.UserFor(rex)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"unread":2`)

	// Reading the thread returns both, oldest first, and marks them read.
	req := testutil.NewAuthenticatedRequest("GET", "/api/messages/"+alice.ID.Hex(), testutil.UserFor(rex))
	req = testutil.WithChiURLParam(req, "accountId", alice.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleConversation(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "hi Rex")
	rec.AssertContains(t, "are you there")

	rec = testutil.NewRecorder()
	h.HandleUnreadCount(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/messages/unread", testutil.UserFor(rex)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"unread":0`)
}

func TestHandleListConversations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := messagesfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")
	rex := fix.CreateRecruiter(ctx, "Rex")
	nadia := fix.CreateRecruiter(ctx, "Nadia")
	conns := connectionstore.New(db)
	if _, err := conns.Connect(ctx, alice.ID, rex.ID); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, err := conns.Connect(ctx, alice.ID, nadia.ID); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	store := messagestore.New(db)
	if _, err := store.Send(ctx, rex.ID, alice.ID, "about your application"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := store.Send(ctx, nadia.ID, alice.ID, "we met at the career fair"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := store.Send(ctx, nadia.ID, alice.ID, "following up"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// Two threads for Alice; Nadia's is more recent and has two unread.
	rec := testutil.NewRecorder()
	h.HandleListConversations(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/messages", testutil.UserFor(alice)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"partner_name":"Rex"`)
	rec.AssertContains(t, `"partner_name":"Nadia"`)
	rec.AssertContains(t, "following up")
	rec.AssertContains(t, `"unread":2`)

	// Rex sees one thread with one unread reply once Alice writes back.
	if _, err := store.Send(ctx, alice.ID, rex.ID, "thanks, will do"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	rec = testutil.NewRecorder()
	h.HandleListConversations(rec.ResponseRecorder, testutil.NewAuthenticatedRequest("GET", "/api/messages", testutil.UserFor(rex)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "thanks, will do")
	rec.AssertContains(t, `"unread":1`)
}

func TestHandleSend_SelfMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := messagesfeature.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fix.CreateStudent(ctx, "Alice")

	body := fmt.Sprintf(`{"to_account_id":%q,"body":"note to self"}`, alice.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/messages", body, testutil.UserFor(alice))
	rec := testutil.NewRecorder()
	h.HandleSend(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Cannot message yourself")
}
