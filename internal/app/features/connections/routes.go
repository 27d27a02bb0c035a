// internal/app/features/connections/routes.go
package connections

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/connections.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleConnect)
	r.Get("/search", h.HandleSearch)
	r.Delete("/{accountId}", h.HandleDisconnect)
	return r
}
