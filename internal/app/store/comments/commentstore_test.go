package commentstore_test

import (
	"testing"

	commentstore "github.com/campusworks/placementhub/internal/app/store/comments"
	"github.com/campusworks/placementhub/internal/domain/models"
	"github.com/campusworks/placementhub/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	commenter := fix.CreateStudent(ctx, "Bob")
	post := fix.CreatePost(ctx, author, "Internship tips")

	for _, body := range []string{"first", "second"} {
		if _, err := store.Create(ctx, models.Comment{
			PostID:          post.ID,
			AuthorAccountID: commenter.ID,
			AuthorName:      commenter.DisplayName,
			Body:            body,
		}); err != nil {
			t.Fatalf("Create(%s) failed: %v", body, err)
		}
	}

	comments, err := store.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	// Oldest first.
	if comments[0].Body != "first" {
		t.Errorf("order wrong: first is %q", comments[0].Body)
	}
}

func TestStore_DeleteByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	post := fix.CreatePost(ctx, author, "doomed post")
	other := fix.CreatePost(ctx, author, "surviving post")
	fix.CreateComment(ctx, post, author, "one")
	fix.CreateComment(ctx, post, author, "two")
	fix.CreateComment(ctx, other, author, "unrelated")

	n, err := store.DeleteByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeleteByPost failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted: got %d, want 2", n)
	}
	remaining, err := store.ListByPost(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListByPost failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("unrelated comments affected: %d remain", len(remaining))
	}
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fix.CreateStudent(ctx, "Alice")
	liker := fix.CreateStudent(ctx, "Bob")
	post := fix.CreatePost(ctx, author, "Internship tips")
	comment := fix.CreateComment(ctx, post, author, "some advice")

	updated, liked, err := store.ToggleLike(ctx, comment.ID, liker.ID)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked || updated.LikeCount() != 1 {
		t.Errorf("after like: liked=%v count=%d", liked, updated.LikeCount())
	}
	updated, liked, err = store.ToggleLike(ctx, comment.ID, liker.ID)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if liked || updated.LikeCount() != 0 {
		t.Errorf("after unlike: liked=%v count=%d", liked, updated.LikeCount())
	}
}
