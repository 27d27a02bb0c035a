// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.With(sysauth.RequireSignedIn).Get("/me", h.HandleMe)
	return r
}
