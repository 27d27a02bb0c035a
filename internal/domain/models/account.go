// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. Role is fixed at registration; no endpoint changes it.
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// ValidRole reports whether s is one of the three account roles.
func ValidRole(s string) bool {
	return s == RoleStudent || s == RoleRecruiter || s == RoleAdmin
}

// Account represents a registered user: student, recruiter, or admin.
//
// The password hash is never serialized to JSON. Profile fields beyond the
// identity block are populated by students; recruiters typically leave them
// empty.
type Account struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName   string             `bson:"display_name" json:"display_name"`
	DisplayNameCI string             `bson:"display_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password_hash" json:"-"`
	Role          string             `bson:"role" json:"role"` // student | recruiter | admin

	StudentID  string           `bson:"student_id,omitempty" json:"student_id,omitempty"`
	Department string           `bson:"department,omitempty" json:"department,omitempty"`
	CGPA       float64          `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Skills     []string         `bson:"skills,omitempty" json:"skills,omitempty"`
	Interests  []string         `bson:"interests,omitempty" json:"interests,omitempty"`
	Experience []WorkExperience `bson:"work_experience,omitempty" json:"work_experience,omitempty"`
	Education  []Education      `bson:"education,omitempty" json:"education,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WorkExperience is one entry in a student's work history.
type WorkExperience struct {
	Company     string `bson:"company" json:"company"`
	Position    string `bson:"position" json:"position"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Education is one entry in a student's education history.
type Education struct {
	Institution string `bson:"institution" json:"institution"`
	Degree      string `bson:"degree" json:"degree"`
	Year        string `bson:"year,omitempty" json:"year,omitempty"`
}

// HasProfile reports whether the student has filled in enough of their
// profile to apply for jobs (skills and interests present).
func (a Account) HasProfile() bool {
	return len(a.Skills) > 0 && len(a.Interests) > 0
}

// ResourceKind implements ownership dispatch for accounts.
func (a Account) ResourceKind() string { return "account" }

// ResourceOwner returns the account itself as its owner: only the subject
// may mutate their own profile.
func (a Account) ResourceOwner() primitive.ObjectID { return a.ID }
