// internal/app/store/reviews/reviewstore.go
package reviewstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("review not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

// Create inserts a company review.
func (s *Store) Create(ctx context.Context, r models.CompanyReview) (models.CompanyReview, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CompanyCI = text.Fold(r.Company)
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.CompanyReview{}, err
	}
	return r, nil
}

// GetByID retrieves a review by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CompanyReview, error) {
	var r models.CompanyReview
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.CompanyReview{}, ErrNotFound
		}
		return models.CompanyReview{}, err
	}
	return r, nil
}

// ListByCompany returns a company's reviews, newest first. An empty
// company lists all reviews.
func (s *Store) ListByCompany(ctx context.Context, company string, limit int64) ([]models.CompanyReview, error) {
	filter := bson.M{}
	if company != "" {
		filter["company_ci"] = text.Fold(company)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reviews []models.CompanyReview
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageRating returns the mean rating and review count for a company.
func (s *Store) AverageRating(ctx context.Context, company string) (float64, int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"company_ci": text.Fold(company)}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rating"},
			"n":   bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Avg float64 `bson:"avg"`
			N   int64   `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, 0, err
		}
		return row.Avg, row.N, nil
	}
	return 0, 0, cur.Err()
}

// Update replaces a review's rating and body.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, rating int, body string) (models.CompanyReview, error) {
	var r models.CompanyReview
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "body": body, "updated_at": time.Now().UTC()}},
		opts).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.CompanyReview{}, ErrNotFound
		}
		return models.CompanyReview{}, err
	}
	return r, nil
}

// Delete removes a review by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
