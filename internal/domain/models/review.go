// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyReview is a student's rating of a company, owned by its author.
type CompanyReview struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorAccountID primitive.ObjectID `bson:"author_account_id" json:"author_account_id"`
	AuthorName      string             `bson:"author_name" json:"author_name"`
	Company         string             `bson:"company" json:"company"`
	CompanyCI       string             `bson:"company_ci" json:"-"`
	Rating          int                `bson:"rating" json:"rating"` // 1..5
	Body            string             `bson:"body,omitempty" json:"body,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ResourceKind implements ownership dispatch for company reviews.
func (r CompanyReview) ResourceKind() string { return "review" }

// ResourceOwner returns the review's author.
func (r CompanyReview) ResourceOwner() primitive.ObjectID { return r.AuthorAccountID }
