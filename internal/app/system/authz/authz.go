// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusworks/placementhub/internal/app/system/auth"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// UserCtx returns the caller's role (lowercased), display name, account
// ObjectID, and a found flag. If no user is present in context or the
// account ID is malformed, it returns "visitor", "", NilObjectID, false.
// This ensures callers can trust that ok=true means a valid, authenticated
// user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, accountID primitive.ObjectID, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	accountID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed account ID in a signed token - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(u.Role), u.Name, accountID, true
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleStudent
}

// IsRecruiter reports whether the current request's user is a recruiter.
func IsRecruiter(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleRecruiter
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}
