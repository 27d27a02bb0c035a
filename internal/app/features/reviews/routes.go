// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/reviews. Reading is
// public; writing needs a signed-in caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/rating", h.HandleCompanyRating)
	r.With(sysauth.RequireSignedIn).Post("/", h.HandleCreate)
	r.Route("/{reviewId}", func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)
		r.Put("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)
	})
	return r
}
