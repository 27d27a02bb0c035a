package ownerpolicy

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/domain/models"
)

func TestAuthorizeOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	post := models.ForumPost{AuthorAccountID: owner}

	if err := Authorize(owner, models.RoleStudent, post, ActionUpdate); err != nil {
		t.Errorf("owner update denied: %v", err)
	}
	if err := Authorize(owner, models.RoleStudent, post, ActionDelete); err != nil {
		t.Errorf("owner delete denied: %v", err)
	}
}

func TestAuthorizeStranger(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	job := models.JobPosting{OwnerAccountID: owner}

	for _, action := range []Action{ActionUpdate, ActionDelete} {
		err := Authorize(stranger, models.RoleRecruiter, job, action)
		if !apierr.IsKind(err, apierr.Forbidden) {
			t.Errorf("stranger %s on job: got %v, want Forbidden", action, err)
		}
	}
}

func TestAdminDeleteOverride(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	// Admins may delete community content they do not own.
	for _, res := range []Owned{
		models.ForumPost{AuthorAccountID: owner},
		models.Comment{AuthorAccountID: owner},
		models.CompanyReview{AuthorAccountID: owner},
	} {
		if err := Authorize(admin, models.RoleAdmin, res, ActionDelete); err != nil {
			t.Errorf("admin delete of %s denied: %v", res.ResourceKind(), err)
		}
		// The override never extends to update.
		if err := Authorize(admin, models.RoleAdmin, res, ActionUpdate); !apierr.IsKind(err, apierr.Forbidden) {
			t.Errorf("admin update of %s: got %v, want Forbidden", res.ResourceKind(), err)
		}
	}

	// The override does not reach jobs, applications, or accounts.
	for _, res := range []Owned{
		models.JobPosting{OwnerAccountID: owner},
		models.Application{ApplicantAccountID: owner},
		models.Account{ID: owner},
	} {
		if err := Authorize(admin, models.RoleAdmin, res, ActionDelete); !apierr.IsKind(err, apierr.Forbidden) {
			t.Errorf("admin delete of %s: got %v, want Forbidden", res.ResourceKind(), err)
		}
	}
}

func TestIsOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	post := models.ForumPost{AuthorAccountID: owner}
	if !IsOwner(owner, post) {
		t.Error("IsOwner(owner) = false")
	}
	if IsOwner(primitive.NewObjectID(), post) {
		t.Error("IsOwner(stranger) = true")
	}
}
