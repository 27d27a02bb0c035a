package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusworks/placementhub/internal/app/system/auth"
	"github.com/campusworks/placementhub/internal/app/system/gates"
	"github.com/campusworks/placementhub/internal/domain/models"
)

func requestAs(id primitive.ObjectID, role string) *http.Request {
	return auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.TokenUser{
		ID:   id.Hex(),
		Name: "Test User",
		Role: role,
	})
}

func TestRequireAuth(t *testing.T) {
	id := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	res := gates.RequireAuth(rec, requestAs(id, models.RoleStudent))
	if !res.OK || res.AccountID != id || res.Role != models.RoleStudent {
		t.Errorf("expected pass-through, got %+v", res)
	}

	rec = httptest.NewRecorder()
	res = gates.RequireAuth(rec, httptest.NewRequest("GET", "/", nil))
	if res.OK {
		t.Errorf("expected rejection for anonymous request")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	id := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	res := gates.RequireRole(rec, requestAs(id, models.RoleStudent), models.RoleRecruiter, models.RoleAdmin)
	if res.OK {
		t.Errorf("expected rejection for wrong role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	res = gates.RequireRole(rec, requestAs(id, models.RoleAdmin), models.RoleRecruiter, models.RoleAdmin)
	if !res.OK {
		t.Errorf("expected admin through the recruiter gate")
	}
}

func TestRequireSelf(t *testing.T) {
	id := primitive.NewObjectID()
	other := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	res := gates.RequireSelf(rec, requestAs(id, models.RoleStudent), id.Hex())
	if !res.OK {
		t.Errorf("expected self access to pass")
	}

	// Role does not bend the self rule; an admin is still someone else.
	rec = httptest.NewRecorder()
	res = gates.RequireSelf(rec, requestAs(other, models.RoleAdmin), id.Hex())
	if res.OK {
		t.Errorf("expected cross-account access to fail")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}
