// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is a student's bid on a JobPosting. At most one exists per
// (job, applicant) pair, enforced by a unique index.
//
// ProfileSnapshot is captured once at creation and never refreshed: the
// recruiter reviewing an application sees the candidate as they were at
// the moment of applying, regardless of later profile edits.
type Application struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID              primitive.ObjectID `bson:"job_id" json:"job_id"`
	ApplicantAccountID primitive.ObjectID `bson:"applicant_account_id" json:"applicant_account_id"`
	Status             string             `bson:"status" json:"status"` // Pending | Reviewed | Accepted | Rejected
	ProfileSnapshot    ProfileSnapshot    `bson:"profile_snapshot" json:"profile_snapshot"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProfileSnapshot is the point-in-time copy of the applicant's profile
// embedded in an Application.
type ProfileSnapshot struct {
	Name       string           `bson:"name" json:"name"`
	Email      string           `bson:"email" json:"email"`
	StudentID  string           `bson:"student_id,omitempty" json:"student_id,omitempty"`
	Department string           `bson:"department,omitempty" json:"department,omitempty"`
	CGPA       float64          `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Skills     []string         `bson:"skills,omitempty" json:"skills,omitempty"`
	Interests  []string         `bson:"interests,omitempty" json:"interests,omitempty"`
	Experience []WorkExperience `bson:"work_experience,omitempty" json:"work_experience,omitempty"`
	Education  []Education      `bson:"education,omitempty" json:"education,omitempty"`
}

// SnapshotOf copies the profile fields of an account into a snapshot.
func SnapshotOf(a Account) ProfileSnapshot {
	return ProfileSnapshot{
		Name:       a.DisplayName,
		Email:      a.Email,
		StudentID:  a.StudentID,
		Department: a.Department,
		CGPA:       a.CGPA,
		Skills:     a.Skills,
		Interests:  a.Interests,
		Experience: a.Experience,
		Education:  a.Education,
	}
}

// ResourceKind implements ownership dispatch for applications.
func (ap Application) ResourceKind() string { return "application" }

// ResourceOwner returns the applicant. Note that status mutations are NOT
// gated on the applicant: they require ownership of the parent JobPosting,
// resolved transitively by the caller.
func (ap Application) ResourceOwner() primitive.ObjectID { return ap.ApplicantAccountID }
