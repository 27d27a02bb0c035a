// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/dashboard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Route("/{userId}", func(r chi.Router) {
		r.Get("/", h.HandleSummary)
		r.Route("/saved-jobs", func(r chi.Router) {
			r.Get("/", h.HandleListSavedJobs)
			r.Post("/", h.HandleSaveJob)
			r.Delete("/{jobId}", h.HandleRemoveSavedJob)
		})
	})
	return r
}
