// internal/app/store/connections/connectionstore.go
package connectionstore

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
	ErrAlreadyConnected = errors.New("Already connected")
	ErrSelfConnection   = errors.New("Cannot connect to yourself")
	ErrNotFound         = errors.New("connection not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("connections")}
}

// Connect creates the edge between two accounts. The edge is one document
// keyed by the canonical pair, so there is no partial state: either both
// sides see the connection or neither does. A second Connect in either
// direction hits the unique pair_key index.
func (s *Store) Connect(ctx context.Context, a, b primitive.ObjectID) (models.ConnectionEdge, error) {
	if a == b {
		return models.ConnectionEdge{}, ErrSelfConnection
	}
	edge := models.ConnectionEdge{
		ID:         primitive.NewObjectID(),
		PairKey:    models.PairKey(a, b),
		AccountIDs: []primitive.ObjectID{a, b},
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, edge); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ConnectionEdge{}, ErrAlreadyConnected
		}
		return models.ConnectionEdge{}, err
	}
	return edge, nil
}

// Disconnect removes the edge between two accounts, from either side.
func (s *Store) Disconnect(ctx context.Context, a, b primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"pair_key": models.PairKey(a, b)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AreConnected reports whether an edge exists between the two accounts.
func (s *Store) AreConnected(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"pair_key": models.PairKey(a, b)})
	return n > 0, err
}

// ListFor returns every edge the account participates in, newest first.
func (s *Store) ListFor(ctx context.Context, account primitive.ObjectID) ([]models.ConnectionEdge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"account_ids": account}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var edges []models.ConnectionEdge
	if err := cur.All(ctx, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// CountFor returns how many connections the account has.
func (s *Store) CountFor(ctx context.Context, account primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"account_ids": account})
}
