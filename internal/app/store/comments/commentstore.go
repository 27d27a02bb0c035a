// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusworks/placementhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("comment not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Create inserts a comment under a post. The parent's comment_count is
// adjusted by the handler, not here.
func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// GetByID retrieves a comment by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	return c, nil
}

// ListByPost returns a post's comments oldest-first.
func (s *Store) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateBody replaces a comment's body and returns the updated document.
func (s *Store) UpdateBody(ctx context.Context, id primitive.ObjectID, body string) (models.Comment, error) {
	var c models.Comment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"body": body, "updated_at": time.Now().UTC()}},
		opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	return c, nil
}

// ToggleLike mirrors the post like toggle: two guarded single-document
// updates, add first, then remove.
func (s *Store) ToggleLike(ctx context.Context, id, account primitive.ObjectID) (models.Comment, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Comment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "liked_by": bson.M{"$ne": account}},
		bson.M{"$addToSet": bson.M{"liked_by": account}},
		opts).Decode(&c)
	if err == nil {
		return c, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Comment{}, false, err
	}

	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "liked_by": account},
		bson.M{"$pull": bson.M{"liked_by": account}},
		opts).Decode(&c)
	if err == nil {
		return c, false, nil
	}
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, false, ErrNotFound
	}
	return models.Comment{}, false, err
}

// Delete removes a comment by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByPost removes every comment under a post. Used by the post
// delete cascade.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
