// internal/app/store/interviews/interviewstore.go
package interviewstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrAlreadyScheduled = errors.New("Interview already scheduled for this application")
	ErrNotFound         = errors.New("interview not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("interviews")}
}

// Create records the scheduling handoff for an accepted application. The
// unique application_id index keeps it to one interview per application.
func (s *Store) Create(ctx context.Context, iv models.Interview) (models.Interview, error) {
	iv.ID = primitive.NewObjectID()
	iv.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, iv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Interview{}, ErrAlreadyScheduled
		}
		return models.Interview{}, err
	}
	return iv, nil
}

// GetByApplication retrieves the interview for an application, if any.
func (s *Store) GetByApplication(ctx context.Context, applicationID primitive.ObjectID) (models.Interview, error) {
	var iv models.Interview
	err := s.c.FindOne(ctx, bson.M{"application_id": applicationID}).Decode(&iv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Interview{}, ErrNotFound
		}
		return models.Interview{}, err
	}
	return iv, nil
}

// ListByApplicant returns a student's upcoming interviews, soonest first.
func (s *Store) ListByApplicant(ctx context.Context, applicant primitive.ObjectID) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"applicant_account_id": applicant}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ivs []models.Interview
	if err := cur.All(ctx, &ivs); err != nil {
		return nil, err
	}
	return ivs, nil
}
