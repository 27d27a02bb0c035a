// internal/app/system/validators/validators.go

// Package validators holds request-level validation rules, including the
// one domain rule owned by registration: the student/recruiter email-domain
// partition. Students must register with the institutional domain;
// recruiters and admins must not. The rule is enforced at account creation
// only and never revisited.
package validators

import (
	"strings"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// Registration is the validated subset of a register request.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// EmailDomain returns the lowercased domain part of an email address,
// or "" if the address has no "@".
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[i+1:])
}

// ValidateRegistration checks required fields, role validity, password
// length, and the domain/role partition against the configured
// institutional domain. Returns a Validation error describing the first
// problem found.
func ValidateRegistration(reg Registration, studentDomain string) error {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return apierr.New(apierr.Validation, "Name, email, and password are required")
	}
	domain := EmailDomain(reg.Email)
	if domain == "" {
		return apierr.New(apierr.Validation, "A valid email address is required")
	}
	if len(reg.Password) < MinPasswordLen {
		return apierr.New(apierr.Validation, "Password must be at least 8 characters")
	}
	role := strings.ToLower(strings.TrimSpace(reg.Role))
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return apierr.New(apierr.Validation, "Role must be student, recruiter, or admin")
	}

	institutional := strings.EqualFold(domain, studentDomain)
	switch role {
	case models.RoleStudent:
		if !institutional {
			return apierr.New(apierr.Validation, "Student accounts must use a @"+studentDomain+" email address")
		}
	default: // recruiter, admin
		if institutional {
			return apierr.New(apierr.Validation, "Recruiter and admin accounts cannot use a @"+studentDomain+" email address")
		}
	}
	return nil
}

// NormalizedRole returns the role that ValidateRegistration accepted:
// lowercased, defaulting to student when blank.
func NormalizedRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return models.RoleStudent
	}
	return r
}
