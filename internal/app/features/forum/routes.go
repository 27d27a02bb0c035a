// internal/app/features/forum/routes.go
package forum

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/forum. Reading is
// public; writing needs a signed-in caller.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.With(sysauth.RequireSignedIn).Post("/", h.HandleCreate)
		r.Route("/{postId}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Get("/comments", h.HandleListComments)
			r.Group(func(r chi.Router) {
				r.Use(sysauth.RequireSignedIn)
				r.Put("/", h.HandleUpdate)
				r.Delete("/", h.HandleDelete)
				r.Post("/like", h.HandleToggleLike)
				r.Post("/comments", h.HandleCreateComment)
			})
		})
	})
	r.Route("/comments/{commentId}", func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)
		r.Put("/", h.HandleUpdateComment)
		r.Delete("/", h.HandleDeleteComment)
		r.Post("/like", h.HandleToggleCommentLike)
	})
	return r
}
