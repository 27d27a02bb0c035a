// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two accounts. PairKey is the same
// canonical unordered-pair key used for connections, so a conversation is
// a single indexed range scan.
type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey       string             `bson:"pair_key" json:"-"`
	FromAccountID primitive.ObjectID `bson:"from_account_id" json:"from_account_id"`
	ToAccountID   primitive.ObjectID `bson:"to_account_id" json:"to_account_id"`
	Body          string             `bson:"body" json:"body"`
	Read          bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
