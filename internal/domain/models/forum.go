// internal/domain/models/forum.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForumPost is community content owned by its author. Comments belong to
// exactly one post and cannot outlive it: deleting a post deletes all of
// its comments.
//
// LikeCount is always the cardinality of LikedBy; it is derived on read,
// never stored separately, so the two cannot drift.
type ForumPost struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorAccountID primitive.ObjectID   `bson:"author_account_id" json:"author_account_id"`
	AuthorName      string               `bson:"author_name" json:"author_name"`
	Title           string               `bson:"title" json:"title"`
	Body            string               `bson:"body" json:"body"`
	Category        string               `bson:"category,omitempty" json:"category,omitempty"`
	Tags            []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	LikedBy         []primitive.ObjectID `bson:"liked_by,omitempty" json:"-"`
	ViewCount       int64                `bson:"view_count" json:"view_count"`
	CommentCount    int64                `bson:"comment_count" json:"comment_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LikeCount returns the number of distinct accounts that liked the post.
func (p ForumPost) LikeCount() int { return len(p.LikedBy) }

// LikedByAccount reports whether the given account has liked the post.
func (p ForumPost) LikedByAccount(id primitive.ObjectID) bool {
	for _, uid := range p.LikedBy {
		if uid == id {
			return true
		}
	}
	return false
}

// ResourceKind implements ownership dispatch for forum posts.
func (p ForumPost) ResourceKind() string { return "forum_post" }

// ResourceOwner returns the post's author.
func (p ForumPost) ResourceOwner() primitive.ObjectID { return p.AuthorAccountID }

// Comment is a reply on a ForumPost, owned by its author for edit/delete.
type Comment struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID          primitive.ObjectID   `bson:"post_id" json:"post_id"`
	AuthorAccountID primitive.ObjectID   `bson:"author_account_id" json:"author_account_id"`
	AuthorName      string               `bson:"author_name" json:"author_name"`
	Body            string               `bson:"body" json:"body"`
	LikedBy         []primitive.ObjectID `bson:"liked_by,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LikeCount returns the number of distinct accounts that liked the comment.
func (c Comment) LikeCount() int { return len(c.LikedBy) }

// LikedByAccount reports whether the given account has liked the comment.
func (c Comment) LikedByAccount(id primitive.ObjectID) bool {
	for _, uid := range c.LikedBy {
		if uid == id {
			return true
		}
	}
	return false
}

// ResourceKind implements ownership dispatch for comments.
func (c Comment) ResourceKind() string { return "comment" }

// ResourceOwner returns the comment's author.
func (c Comment) ResourceOwner() primitive.ObjectID { return c.AuthorAccountID }
