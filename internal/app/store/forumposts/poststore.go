// internal/app/store/forumposts/poststore.go
package poststore

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

var ErrNotFound = errors.New("post not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("forum_posts")}
}

// Create inserts a new forum post. Body is expected to be sanitized by
// the handler before it gets here.
func (s *Store) Create(ctx context.Context, p models.ForumPost) (models.ForumPost, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.ForumPost{}, err
	}
	return p, nil
}

// GetByID retrieves a post by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ForumPost, error) {
	var p models.ForumPost
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ForumPost{}, ErrNotFound
		}
		return models.ForumPost{}, err
	}
	return p, nil
}

// List returns posts newest-first, optionally filtered by category or
// author.
func (s *Store) List(ctx context.Context, category string, author primitive.ObjectID, limit int64) ([]models.ForumPost, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if !author.IsZero() {
		filter["author_account_id"] = author
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.ForumPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateContent replaces the editable fields of a post and returns the
// updated document. Ownership is checked by the caller before this runs.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, title, body, category string, tags []string) (models.ForumPost, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if title != "" {
		set["title"] = title
	}
	if body != "" {
		set["body"] = body
	}
	if category != "" {
		set["category"] = category
	}
	if tags != nil {
		set["tags"] = tags
	}
	var p models.ForumPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ForumPost{}, ErrNotFound
		}
		return models.ForumPost{}, err
	}
	return p, nil
}

// ToggleLike likes the post when the account has not liked it, and
// removes the like when it has. Both arms are single guarded updates, so
// concurrent toggles by the same account cannot double-count. Returns the
// updated post and whether it is now liked by the account.
func (s *Store) ToggleLike(ctx context.Context, id, account primitive.ObjectID) (models.ForumPost, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// Arm 1: not yet liked -> add.
	var p models.ForumPost
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "liked_by": bson.M{"$ne": account}},
		bson.M{"$addToSet": bson.M{"liked_by": account}},
		opts).Decode(&p)
	if err == nil {
		return p, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.ForumPost{}, false, err
	}

	// Arm 2: already liked -> remove.
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "liked_by": account},
		bson.M{"$pull": bson.M{"liked_by": account}},
		opts).Decode(&p)
	if err == nil {
		return p, false, nil
	}
	if err == mongo.ErrNoDocuments {
		return models.ForumPost{}, false, ErrNotFound
	}
	return models.ForumPost{}, false, err
}

// IncViewCount bumps the view counter. Every read counts, including the
// author's own.
func (s *Store) IncViewCount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustCommentCount moves the denormalized comment counter by delta.
func (s *Store) AdjustCommentCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"comment_count": delta}})
	return err
}

// Delete removes a post by ID. Comment cascade is the caller's job.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
