// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/messages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.HandleListConversations)
	r.Post("/", h.HandleSend)
	r.Get("/unread", h.HandleUnreadCount)
	r.Get("/{accountId}", h.HandleConversation)
	return r
}
