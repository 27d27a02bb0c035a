// internal/app/policy/ownerpolicy/ownerpolicy.go

// Package ownerpolicy centralizes the "may this subject mutate this
// resource?" decision for every owned resource kind. Handlers load the
// resource, then ask this package instead of hand-rolling per-endpoint
// ownership checks.
//
// The rule is uniform: the owner may update and delete their resource.
// Admins additionally hold a delete override on community content (forum
// posts, comments, reviews) for moderation; the override never extends to
// update, and never to jobs, applications, or accounts.
package ownerpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Action is a mutation class a subject may be authorized for.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Owned is any resource that knows its kind and its owning account.
// All mutable domain models implement it.
type Owned interface {
	ResourceKind() string
	ResourceOwner() primitive.ObjectID
}

// moderated kinds accept an admin delete override.
var moderated = map[string]bool{
	"forum_post": true,
	"comment":    true,
	"review":     true,
}

// Authorize decides whether subject (with the given role) may perform
// action on res. A denial is always apierr.Forbidden with the uniform
// "Access denied." message; the caller decides whether to conflate it
// with NotFound.
func Authorize(subject primitive.ObjectID, role string, res Owned, action Action) error {
	if subject == res.ResourceOwner() {
		return nil
	}
	if action == ActionDelete && role == models.RoleAdmin && moderated[res.ResourceKind()] {
		return nil
	}
	return apierr.New(apierr.Forbidden, "Access denied.")
}

// IsOwner reports whether subject owns res, without the admin override.
func IsOwner(subject primitive.ObjectID, res Owned) bool {
	return subject == res.ResourceOwner()
}
