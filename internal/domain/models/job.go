// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobPosting is a recruiter-owned listing with a forward-only lifecycle:
// Open -> Closed or Open -> Filled, both terminal.
type JobPosting struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	TitleCI        string             `bson:"title_ci" json:"-"`
	Company        string             `bson:"company" json:"company"`
	CompanyCI      string             `bson:"company_ci" json:"-"`
	OwnerAccountID primitive.ObjectID `bson:"owner_account_id" json:"owner_account_id"`
	Status         string             `bson:"status" json:"status"` // Open | Closed | Filled
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	RequiredSkills []string           `bson:"required_skills,omitempty" json:"required_skills,omitempty"`
	SalaryMin      int                `bson:"salary_min,omitempty" json:"salary_min,omitempty"`
	SalaryMax      int                `bson:"salary_max,omitempty" json:"salary_max,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ResourceKind implements ownership dispatch for job postings.
func (j JobPosting) ResourceKind() string { return "job_posting" }

// ResourceOwner returns the recruiter account that owns this posting.
func (j JobPosting) ResourceOwner() primitive.ObjectID { return j.OwnerAccountID }
