// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/profile.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/status", h.HandleStatus)
	r.Put("/", h.HandleUpdate)
	return r
}
