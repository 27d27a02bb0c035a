// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/app/policy/statuspolicy"
	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrAlreadyApplied = errors.New("Already applied to this job")
	ErrNotFound       = errors.New("application not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// Create inserts a new application with the applicant's profile snapshot
// embedded. The unique (job, applicant) index turns a second application
// for the same job into ErrAlreadyApplied.
func (s *Store) Create(ctx context.Context, app models.Application) (models.Application, error) {
	now := time.Now().UTC()
	app.ID = primitive.NewObjectID()
	if app.Status == "" {
		app.Status = statuspolicy.AppPending
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, app); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrAlreadyApplied
		}
		return models.Application{}, err
	}
	return app, nil
}

// GetByID retrieves an application by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var app models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Application{}, ErrNotFound
		}
		return models.Application{}, err
	}
	return app, nil
}

// ListByApplicant returns a student's applications, newest first.
func (s *Store) ListByApplicant(ctx context.Context, applicant primitive.ObjectID) ([]models.Application, error) {
	return s.list(ctx, bson.M{"applicant_account_id": applicant},
		bson.D{{Key: "created_at", Value: -1}})
}

// ListByJob returns the applications for one posting, oldest first, each
// carrying the profile snapshot taken when it was submitted.
func (s *Store) ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	return s.list(ctx, bson.M{"job_id": jobID},
		bson.D{{Key: "created_at", Value: 1}})
}

func (s *Store) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Application, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// HasApplied reports whether the student already applied to the job.
func (s *Store) HasApplied(ctx context.Context, jobID, applicant primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"job_id": jobID, "applicant_account_id": applicant})
	return n > 0, err
}

// SetStatus moves an application's status. The transition is validated
// and the current status is part of the filter, so a terminal application
// cannot be mutated even under concurrency.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to string) (models.Application, error) {
	if err := statuspolicy.CheckApplicationTransition(from, to); err != nil {
		return models.Application{}, err
	}
	var app models.Application
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		opts).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			cur, getErr := s.GetByID(ctx, id)
			if getErr != nil {
				return models.Application{}, getErr
			}
			if checkErr := statuspolicy.CheckApplicationTransition(cur.Status, to); checkErr != nil {
				return models.Application{}, checkErr
			}
			return models.Application{}, ErrNotFound
		}
		return models.Application{}, err
	}
	return app, nil
}

// CountByApplicant returns how many applications the student has made,
// total and by status. Used by the dashboard summary.
func (s *Store) CountByApplicant(ctx context.Context, applicant primitive.ObjectID) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"applicant_account_id": applicant}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.N
	}
	return counts, cur.Err()
}

// DeleteByJob removes all applications for a posting. Used when a
// recruiter deletes the posting itself.
func (s *Store) DeleteByJob(ctx context.Context, jobID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
