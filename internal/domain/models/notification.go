// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds. Kind is informational; the SPA uses it to pick an
// icon and the Link to deep-link into the relevant page.
const (
	NotifyApplicationSubmitted = "application_submitted"
	NotifyApplicationReceived  = "application_received"
	NotifyApplicationStatus    = "application_status"
	NotifyPostLiked            = "post_liked"
	NotifyPostCommented        = "post_commented"
	NotifyCommentLiked         = "comment_liked"
	NotifyConnection           = "connection"
	NotifyInterviewScheduled   = "interview_scheduled"
)

// Notification is created as a side effect of actions by other accounts
// and mutated (mark read) only by its recipient.
type Notification struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientAccountID primitive.ObjectID `bson:"recipient_account_id" json:"recipient_account_id"`
	Message            string             `bson:"message" json:"message"`
	Kind               string             `bson:"kind,omitempty" json:"kind,omitempty"`
	Link               string             `bson:"link,omitempty" json:"link,omitempty"`
	Read               bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
