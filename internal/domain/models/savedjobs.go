// internal/domain/models/savedjobs.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedJobsList is the one-per-account set of saved job references.
// Adding a job that is already present is a reported condition
// ("Job already saved"), not a silent no-op.
type SavedJobsList struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID   `bson:"account_id" json:"account_id"`
	JobIDs    []primitive.ObjectID `bson:"job_ids,omitempty" json:"job_ids"`
}
