// internal/domain/models/connection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionEdge is a symmetric "contact" relation between two accounts,
// stored as a single document keyed by the canonical unordered pair. This
// replaces the dual write (one array entry on each account document) that
// could be left half-applied by a crash: with one document there is no
// partial state to recover from.
type ConnectionEdge struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey    string               `bson:"pair_key" json:"-"` // sorted hex ids joined with ":"
	AccountIDs []primitive.ObjectID `bson:"account_ids" json:"account_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

/// PairKey builds the canonical key for an unordered account pair: the two
// hex IDs sorted lexicographically and joined with ":". Connections and
// messages share it, so either side of a relation computes the same key.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// Other returns the account on the far side of the edge from id.
// If id is not a participant, it returns the zero ObjectID.
func (e ConnectionEdge) Other(id primitive.ObjectID) primitive.ObjectID {
	for _, a := range e.AccountIDs {
		if a != id {
			return a
		}
	}
	return primitive.NilObjectID
}
