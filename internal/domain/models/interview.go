// internal/domain/models/interview.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interview records a scheduling handoff made when an application is
// accepted. The actual calendar/invite machinery is a downstream
// collaborator; this document is only what it is handed.
type Interview struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ApplicationID      primitive.ObjectID `bson:"application_id" json:"application_id"`
	JobID              primitive.ObjectID `bson:"job_id" json:"job_id"`
	ApplicantAccountID primitive.ObjectID `bson:"applicant_account_id" json:"applicant_account_id"`
	RecruiterAccountID primitive.ObjectID `bson:"recruiter_account_id" json:"recruiter_account_id"`
	ScheduledTime      time.Time          `bson:"scheduled_time" json:"scheduled_time"`
	MeetingLink        string             `bson:"meeting_link,omitempty" json:"meeting_link,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
