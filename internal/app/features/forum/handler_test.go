package forum_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	forumfeature "github.com/campusworks/placementhub/internal/app/features/forum"
	commentstore "github.com/campusworks/placementhub/internal/app/store/comments"
	poststore "github.com/campusworks/placementhub/internal/app/store/forumposts"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestHandleToggleLike_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := forumfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	liker := fix.CreateStudent(ctx, "Bob")
	post := fix.CreatePost(ctx, author, "Interview tips")

	target := "/api/forum/posts/" + post.ID.Hex() + "/like"

	req := testutil.NewAuthenticatedRequest("POST", target, testutil.UserFor(liker))
	req = testutil.WithChiURLParam(req, "postId", post.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleToggleLike(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"liked":true`)
	rec.AssertContains(t, `"like_count":1`)

	// Toggling again withdraws the like.
	req = testutil.NewAuthenticatedRequest("POST", target, testutil.UserFor(liker))
	req = testutil.WithChiURLParam(req, "postId", post.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleToggleLike(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"liked":false`)
	rec.AssertContains(t, `"like_count":0`)
}

func TestHandleGet_BumpsViewCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := forumfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	post := fix.CreatePost(ctx, author, "Interview tips")

	for i := 0; i < 2; i++ {
		req := testutil.NewRequest("GET", "/api/forum/posts/"+post.ID.Hex())
		req = testutil.WithChiURLParam(req, "postId", post.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleGet(rec.ResponseRecorder, req)
		rec.AssertStatus(t, http.StatusOK)
	}

	got, err := poststore.New(db).GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ViewCount != 2 {
		t.Errorf("view count: got %d, want 2", got.ViewCount)
	}
}

func TestHandleDelete_AdminOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := forumfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	stranger := fix.CreateStudent(ctx, "Bob")
	admin := fix.CreateAdmin(ctx, "Root")
	post := fix.CreatePost(ctx, author, "Interview tips")
	fix.CreateComment(ctx, post, stranger, "useful, thanks")

	target := "/api/forum/posts/" + post.ID.Hex()

	// A non-author cannot delete.
	req := testutil.NewAuthenticatedRequest("DELETE", target, testutil.UserFor(stranger))
	req = testutil.WithChiURLParam(req, "postId", post.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// An admin can, and the comment thread goes with it.
	req = testutil.NewAuthenticatedRequest("DELETE", target, testutil.UserFor(admin))
	req = testutil.WithChiURLParam(req, "postId", post.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	if _, err := poststore.New(db).GetByID(ctx, post.ID); err != poststore.ErrNotFound {
		t.Errorf("post still present after delete: %v", err)
	}
	comments, err := commentstore.New(db).ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived the cascade: %d", len(comments))
	}
}

func TestHandleCreate_SanitizesMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := forumfeature.NewHandler(db, db.Client(), zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")

	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/forum/posts",
		`{"title":"hi","body":"before<script>alert(1)</script>after","category":"general"}`,
		testutil.UserFor(author))
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	posts, err := poststore.New(db).List(ctx, "general", author.ID, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if want := "beforeafter"; posts[0].Body != want {
		t.Errorf("body: got %q, want %q", posts[0].Body, want)
	}
}
