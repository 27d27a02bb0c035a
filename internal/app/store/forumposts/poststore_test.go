package poststore_test

import (
	"testing"

	poststore "github.com/campusworks/placementhub/internal/app/store/forumposts"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestStore_ToggleLike_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	liker := fix.CreateStudent(ctx, "Bob")
	post := fix.CreatePost(ctx, author, "Internship tips")

	// First toggle likes.
	updated, liked, err := store.ToggleLike(ctx, post.ID, liker.ID)
	if err != nil {
		t.Fatalf("first ToggleLike failed: %v", err)
	}
	if !liked || updated.LikeCount() != 1 {
		t.Errorf("after like: liked=%v count=%d", liked, updated.LikeCount())
	}
	if !updated.LikedByAccount(liker.ID) {
		t.Error("LikedByAccount(liker) = false after like")
	}

	// Second toggle unlikes, back to the starting state.
	updated, liked, err = store.ToggleLike(ctx, post.ID, liker.ID)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if liked || updated.LikeCount() != 0 {
		t.Errorf("after unlike: liked=%v count=%d", liked, updated.LikeCount())
	}
}

func TestStore_ToggleLike_TwoAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	post := fix.CreatePost(ctx, author, "Internship tips")
	a := fix.CreateStudent(ctx, "Bob")
	b := fix.CreateStudent(ctx, "Carol")

	if _, _, err := store.ToggleLike(ctx, post.ID, a.ID); err != nil {
		t.Fatalf("ToggleLike(a) failed: %v", err)
	}
	updated, _, err := store.ToggleLike(ctx, post.ID, b.ID)
	if err != nil {
		t.Fatalf("ToggleLike(b) failed: %v", err)
	}
	if updated.LikeCount() != 2 {
		t.Errorf("like count: got %d, want 2", updated.LikeCount())
	}

	// b unlikes; a's like survives.
	updated, _, err = store.ToggleLike(ctx, post.ID, b.ID)
	if err != nil {
		t.Fatalf("unlike(b) failed: %v", err)
	}
	if updated.LikeCount() != 1 || !updated.LikedByAccount(a.ID) {
		t.Errorf("after b unlikes: count=%d likedByA=%v", updated.LikeCount(), updated.LikedByAccount(a.ID))
	}
}

func TestStore_IncViewCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	post := fix.CreatePost(ctx, author, "Internship tips")

	for i := 0; i < 3; i++ {
		if err := store.IncViewCount(ctx, post.ID); err != nil {
			t.Fatalf("IncViewCount failed: %v", err)
		}
	}
	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("view count: got %d, want 3", got.ViewCount)
	}
}

func TestStore_List_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	fix.CreatePost(ctx, author, "first")
	fix.CreatePost(ctx, author, "second")

	posts, err := store.List(ctx, "", author.ID, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].CreatedAt.Before(posts[1].CreatedAt) {
		t.Error("posts not sorted newest-first")
	}
}
