// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/campusworks/placementhub/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/notifications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.HandleList)
	r.Get("/unread", h.HandleUnreadCount)
	r.Patch("/read-all", h.HandleMarkAllRead)
	r.Patch("/{notificationId}/read", h.HandleMarkRead)
	return r
}
