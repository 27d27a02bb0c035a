// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/jobs. Browse and read
// are public; everything else needs a signed-in caller, with role and
// ownership checked in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.With(sysauth.RequireSignedIn).Post("/", h.HandleCreate)
	r.With(sysauth.RequireSignedIn).Get("/mine", h.HandleMine)
	r.Route("/{jobId}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Group(func(r chi.Router) {
			r.Use(sysauth.RequireSignedIn)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.Patch("/status", h.HandleSetStatus)
			r.Post("/apply", h.HandleApply)
			r.Get("/applicants", h.HandleApplicants)
		})
	})
	return r
}
