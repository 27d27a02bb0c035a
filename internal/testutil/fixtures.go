// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusworks/placementhub/internal/app/policy/statuspolicy"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int // sequence for unique emails
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) nextEmail(local, domain string) string {
	f.n++
	return fmt.Sprintf("%s%d@%s", local, f.n, domain)
}

func (f *Fixtures) insertAccount(ctx context.Context, a models.Account) models.Account {
	f.t.Helper()
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.DisplayNameCI = text.Fold(a.DisplayName)
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := f.db.Collection("accounts").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return a
}

// CreateStudent creates a student account with a filled profile, ready to
// apply for jobs.
func (f *Fixtures) CreateStudent(ctx context.Context, name string) models.Account {
	f.t.Helper()
	return f.insertAccount(ctx, models.Account{
		DisplayName:  name,
		Email:        f.nextEmail("student", "g.bracu.ac.bd"),
		PasswordHash: "x",
		Role:         models.RoleStudent,
		StudentID:    "20101234",
		Department:   "CSE",
		CGPA:         3.5,
		Skills:       []string{"Go", "MongoDB"},
		Interests:    []string{"backend"},
	})
}

// CreateBareStudent creates a student account with an empty profile.
func (f *Fixtures) CreateBareStudent(ctx context.Context, name string) models.Account {
	f.t.Helper()
	return f.insertAccount(ctx, models.Account{
		DisplayName:  name,
		Email:        f.nextEmail("bare", "g.bracu.ac.bd"),
		PasswordHash: "x",
		Role:         models.RoleStudent,
	})
}

// CreateRecruiter creates a recruiter account.
func (f *Fixtures) CreateRecruiter(ctx context.Context, name string) models.Account {
	f.t.Helper()
	return f.insertAccount(ctx, models.Account{
		DisplayName:  name,
		Email:        f.nextEmail("recruiter", "acme.com"),
		PasswordHash: "x",
		Role:         models.RoleRecruiter,
	})
}

// CreateAdmin creates an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name string) models.Account {
	f.t.Helper()
	return f.insertAccount(ctx, models.Account{
		DisplayName:  name,
		Email:        f.nextEmail("admin", "campusworks.example"),
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	})
}

// CreateJob creates an Open job posting owned by the given recruiter.
func (f *Fixtures) CreateJob(ctx context.Context, owner primitive.ObjectID, title string) models.JobPosting {
	f.t.Helper()
	now := time.Now().UTC()
	j := models.JobPosting{
		ID:             primitive.NewObjectID(),
		Title:          title,
		TitleCI:        text.Fold(title),
		Company:        "Acme Corp",
		CompanyCI:      text.Fold("Acme Corp"),
		OwnerAccountID: owner,
		Status:         statuspolicy.JobOpen,
		Location:       "Dhaka",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("job_postings").InsertOne(ctx, j); err != nil {
		f.t.Fatalf("failed to create test job: %v", err)
	}
	return j
}

// CreateApplication creates a Pending application with the applicant's
// current profile snapshotted in.
func (f *Fixtures) CreateApplication(ctx context.Context, job models.JobPosting, applicant models.Account) models.Application {
	f.t.Helper()
	now := time.Now().UTC()
	app := models.Application{
		ID:                 primitive.NewObjectID(),
		JobID:              job.ID,
		ApplicantAccountID: applicant.ID,
		Status:             statuspolicy.AppPending,
		ProfileSnapshot:    models.SnapshotOf(applicant),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreatePost creates a forum post by the given author.
func (f *Fixtures) CreatePost(ctx context.Context, author models.Account, title string) models.ForumPost {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.ForumPost{
		ID:              primitive.NewObjectID(),
		AuthorAccountID: author.ID,
		AuthorName:      author.DisplayName,
		Title:           title,
		Body:            "test post body",
		Category:        "general",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("forum_posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}

// CreateComment creates a comment by the given author under a post and
// bumps the post's comment counter the way the handler would.
func (f *Fixtures) CreateComment(ctx context.Context, post models.ForumPost, author models.Account, body string) models.Comment {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Comment{
		ID:              primitive.NewObjectID(),
		PostID:          post.ID,
		AuthorAccountID: author.ID,
		AuthorName:      author.DisplayName,
		Body:            body,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	if _, err := f.db.Collection("forum_posts").UpdateByID(ctx, post.ID,
		bson.M{"$inc": bson.M{"comment_count": 1}}); err != nil {
		f.t.Fatalf("failed to bump comment count: %v", err)
	}
	return c
}

// CreateNotification creates a notification for the given recipient.
func (f *Fixtures) CreateNotification(ctx context.Context, recipient primitive.ObjectID, message string) models.Notification {
	f.t.Helper()
	n := models.Notification{
		ID:                 primitive.NewObjectID(),
		RecipientAccountID: recipient,
		Message:            message,
		Kind:               models.NotifyApplicationStatus,
		CreatedAt:          time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
