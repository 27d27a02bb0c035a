// internal/app/store/messages/messagestore.go
package messagestore

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

var ErrSelfMessage = errors.New("Cannot message yourself")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Send inserts a direct message. The pair key is derived here so callers
// cannot send a message filed under the wrong conversation.
func (s *Store) Send(ctx context.Context, from, to primitive.ObjectID, body string) (models.Message, error) {
	if from == to {
		return models.Message{}, ErrSelfMessage
	}
	m := models.Message{
		ID:            primitive.NewObjectID(),
		PairKey:       models.PairKey(from, to),
		FromAccountID: from,
		ToAccountID:   to,
		Body:          body,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// Conversation returns the messages between two accounts, oldest first.
func (s *Store) Conversation(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"pair_key": models.PairKey(a, b)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkConversationRead marks every message sent to reader in the
// conversation with other as read. Returns how many were updated.
func (s *Store) MarkConversationRead(ctx context.Context, reader, other primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"pair_key": models.PairKey(reader, other), "to_account_id": reader, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnread returns the number of unread messages addressed to the
// account, across all conversations.
func (s *Store) CountUnread(ctx context.Context, account primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"to_account_id": account, "read": false})
}

// ConversationHead is one row of the conversation list: the most recent
// message in a thread plus the unread count addressed to the caller.
type ConversationHead struct {
	PartnerAccountID primitive.ObjectID `bson:"partner_account_id"`
	LastMessage      models.Message     `bson:"last_message"`
	Unread           int64              `bson:"unread"`
}

// ListConversations groups the account's messages by conversation and
// returns one head per thread, most recently active first.
func (s *Store) ListConversations(ctx context.Context, account primitive.ObjectID) ([]ConversationHead, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"from_account_id": account},
			bson.M{"to_account_id": account},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$pair_key",
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$to_account_id", account}},
					bson.M{"$eq": bson.A{"$read", false}},
				}},
				1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		LastMessage models.Message `bson:"last_message"`
		Unread      int64          `bson:"unread"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	heads := make([]ConversationHead, 0, len(rows))
	for _, row := range rows {
		partner := row.LastMessage.FromAccountID
		if partner == account {
			partner = row.LastMessage.ToAccountID
		}
		heads = append(heads, ConversationHead{
			PartnerAccountID: partner,
			LastMessage:      row.LastMessage,
			Unread:           row.Unread,
		})
	}
	return heads, nil
}
