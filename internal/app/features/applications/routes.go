// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/applications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.HandleMine)
	r.Get("/interviews", h.HandleMyInterviews)
	r.Route("/{applicationId}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Patch("/status", h.HandleSetStatus)
		r.Post("/interview", h.HandleScheduleInterview)
	})
	return r
}
