package validators

import (
	"testing"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
)

const testDomain = "g.bracu.ac.bd"

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@g.bracu.ac.bd", "g.bracu.ac.bd"},
		{"Bob@ACME.COM", "acme.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"a@b@c.com", "c.com"},
	}
	for _, tt := range tests {
		if got := EmailDomain(tt.email); got != tt.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestValidateRegistration(t *testing.T) {
	ok := func(name string, reg Registration) {
		t.Run(name, func(t *testing.T) {
			if err := ValidateRegistration(reg, testDomain); err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
		})
	}
	bad := func(name string, reg Registration) {
		t.Run(name, func(t *testing.T) {
			err := ValidateRegistration(reg, testDomain)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !apierr.IsKind(err, apierr.Validation) {
				t.Fatalf("expected Validation kind, got %v", err)
			}
		})
	}

	ok("student with institutional email", Registration{
		Name: "Alice", Email: "alice@g.bracu.ac.bd", Password: "hunter2hunter2", Role: "student",
	})
	ok("blank role defaults to student", Registration{
		Name: "Alice", Email: "alice@g.bracu.ac.bd", Password: "hunter2hunter2",
	})
	ok("recruiter with external email", Registration{
		Name: "Rex", Email: "rex@acme.com", Password: "hunter2hunter2", Role: "recruiter",
	})
	ok("role is case-insensitive", Registration{
		Name: "Rex", Email: "rex@acme.com", Password: "hunter2hunter2", Role: "Recruiter",
	})
	ok("admin with external email", Registration{
		Name: "Ada", Email: "ada@staff.example.org", Password: "hunter2hunter2", Role: "admin",
	})

	bad("student with external email", Registration{
		Name: "Alice", Email: "alice@gmail.com", Password: "hunter2hunter2", Role: "student",
	})
	bad("recruiter with institutional email", Registration{
		Name: "Rex", Email: "rex@g.bracu.ac.bd", Password: "hunter2hunter2", Role: "recruiter",
	})
	bad("admin with institutional email", Registration{
		Name: "Ada", Email: "ada@g.bracu.ac.bd", Password: "hunter2hunter2", Role: "admin",
	})
	bad("missing name", Registration{
		Email: "alice@g.bracu.ac.bd", Password: "hunter2hunter2", Role: "student",
	})
	bad("missing email", Registration{
		Name: "Alice", Password: "hunter2hunter2", Role: "student",
	})
	bad("missing password", Registration{
		Name: "Alice", Email: "alice@g.bracu.ac.bd", Role: "student",
	})
	bad("email without domain", Registration{
		Name: "Alice", Email: "alice", Password: "hunter2hunter2", Role: "student",
	})
	bad("short password", Registration{
		Name: "Alice", Email: "alice@g.bracu.ac.bd", Password: "short", Role: "student",
	})
	bad("unknown role", Registration{
		Name: "Alice", Email: "alice@g.bracu.ac.bd", Password: "hunter2hunter2", Role: "superuser",
	})
}

func TestNormalizedRole(t *testing.T) {
	if got := NormalizedRole(""); got != "student" {
		t.Errorf("NormalizedRole(\"\") = %q, want student", got)
	}
	if got := NormalizedRole("  Recruiter "); got != "recruiter" {
		t.Errorf("NormalizedRole = %q, want recruiter", got)
	}
}
