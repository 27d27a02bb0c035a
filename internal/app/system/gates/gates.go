// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the JSON error
// envelope when checks fail.
//
// # Three-Tier Authorization Pattern
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need checks the route group doesn't make,
//     such as matching a {userId} path parameter against the caller.
//
//  3. Policy Layer (internal/app/policy/*)
//     Resource-specific authorization requiring a database load, e.g.
//     ownerpolicy.Authorize over a fetched job posting.
package gates

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/authz"
	"github.com/campusworks/placementhub/internal/app/system/respond"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role      string
	Name      string
	AccountID primitive.ObjectID
	OK        bool
}

// RequireAuth ensures a user is authenticated.
// If not, it writes a 401 envelope and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, AccountID: uid, OK: true}
}

// RequireRole ensures the user is authenticated and holds one of the
// allowed roles. 401 when unauthenticated, 403 otherwise.
func RequireRole(w http.ResponseWriter, r *http.Request, allowed ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
		return Result{OK: false}
	}
	for _, a := range allowed {
		if role == a {
			return Result{Role: role, Name: name, AccountID: uid, OK: true}
		}
	}
	respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
	return Result{OK: false}
}

// RequireSelf ensures the authenticated caller's account ID matches the
// id in the given path parameter. Used by the dashboard-family endpoints
// where the path names whose data is being read: a mismatch is Forbidden
// regardless of whether the target exists.
func RequireSelf(w http.ResponseWriter, r *http.Request, userIDHex string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
		return Result{OK: false}
	}
	if uid.Hex() != userIDHex {
		respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, AccountID: uid, OK: true}
}
