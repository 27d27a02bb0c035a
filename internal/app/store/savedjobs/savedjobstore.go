// internal/app/store/savedjobs/savedjobstore.go
package savedjobstore

import (
	"context"
	"errors"

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
	ErrAlreadySaved = errors.New("Job already saved")
	ErrNotSaved     = errors.New("job is not in the saved list")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("saved_jobs")}
}

// Add appends a job to the account's saved list, creating the list on
// first use. The update is guarded on the job not already being present,
// so a duplicate save is reported, not silently absorbed.
func (s *Store) Add(ctx context.Context, account, jobID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"account_id": account, "job_ids": bson.M{"$ne": jobID}},
		bson.M{"$addToSet": bson.M{"job_ids": jobID}},
		options.Update().SetUpsert(true))
	if err != nil {
		// The upsert races the unique account_id index when the list
		// exists and already holds the job: the guard excludes the
		// existing document and the insert then collides.
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadySaved
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrAlreadySaved
	}
	return nil
}

// Remove pulls a job from the account's saved list. Removing a job that
// is not saved reports ErrNotSaved.
func (s *Store) Remove(ctx context.Context, account, jobID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"account_id": account},
		bson.M{"$pull": bson.M{"job_ids": jobID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotSaved
	}
	return nil
}

// List returns the account's saved job IDs in insertion order. An account
// that never saved anything gets an empty list.
func (s *Store) List(ctx context.Context, account primitive.ObjectID) ([]primitive.ObjectID, error) {
	var list models.SavedJobsList
	err := s.c.FindOne(ctx, bson.M{"account_id": account}).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []primitive.ObjectID{}, nil
		}
		return nil, err
	}
	if list.JobIDs == nil {
		return []primitive.ObjectID{}, nil
	}
	return list.JobIDs, nil
}

// IsSaved reports whether the account has saved the job.
func (s *Store) IsSaved(ctx context.Context, account, jobID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"account_id": account, "job_ids": jobID})
	return n > 0, err
}

// RemoveJobEverywhere pulls a deleted job out of every saved list.
func (s *Store) RemoveJobEverywhere(ctx context.Context, jobID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"job_ids": jobID},
		bson.M{"$pull": bson.M{"job_ids": jobID}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
