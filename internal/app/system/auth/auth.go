// internal/app/system/auth/auth.go

// Package auth issues and verifies the bearer tokens that identify every
// API caller, and injects the verified identity into the request context.
//
// The token is a signed HS256 JWT carrying {sub, name, email, role, jti,
// iat, exp}. It is resolved once per request by LoadTokenUser and never
// re-derived downstream; authz.UserCtx is the read path for handlers.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusworks/placementhub/internal/app/system/apierr"
	"github.com/campusworks/placementhub/internal/app/system/respond"
	"github.com/campusworks/placementhub/internal/domain/models"
)

// TokenUser is the verified identity injected into r.Context().
type TokenUser struct {
	ID    string // account ObjectID hex
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the verified caller and a "found?" flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user directly into the request context,
// bypassing token verification. For tests only.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

// Manager signs and verifies tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a Manager with the given signing secret and token
// lifetime (the API contract observes ~24h).
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the account. Returns the token string and its
// expiry time.
func (m *Manager) Issue(a models.Account) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub":   a.ID.Hex(),
		"name":  a.DisplayName,
		"email": a.Email,
		"role":  a.Role,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string, returning the identity it
// carries. Expired or tampered tokens fail with Unauthenticated.
func (m *Manager) Verify(tokenString string) (*TokenUser, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, apierr.Wrap(apierr.Unauthenticated, "Invalid or expired token", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.New(apierr.Unauthenticated, "Invalid or expired token")
	}
	u := &TokenUser{}
	if v, ok := claims["sub"].(string); ok {
		u.ID = v
	}
	if v, ok := claims["name"].(string); ok {
		u.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		u.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		u.Role = strings.ToLower(v)
	}
	if u.ID == "" {
		return nil, apierr.New(apierr.Unauthenticated, "Invalid or expired token")
	}
	return u, nil
}

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// LoadTokenUser injects the verified caller into context when a valid
// bearer token is presented. Requests without a token pass through
// unauthenticated; RequireSignedIn / RequireRole do the rejecting.
func (m *Manager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearerToken(r); tok != "" {
			if u, err := m.Verify(tok); err == nil {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a verified user in context (set by
// LoadTokenUser) and rejects with 401 otherwise.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the caller is signed in and holds one of the allowed
// roles. Not signed in rejects 401; wrong role rejects 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.ErrMessage(w, apierr.Unauthenticated, "Access denied. No token provided.")
				return
			}
			if _, ok := set[strings.ToLower(u.Role)]; !ok {
				respond.ErrMessage(w, apierr.Forbidden, "Access denied.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
