// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts messaging under "/messages".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeInbox)
	r.Get("/inbox", h.ServeInbox)
	r.Get("/sent", h.ServeSent)
	r.Get("/compose", h.ServeCompose)
	r.Post("/compose", h.HandleCompose)
	r.Post("/{id}/read", h.HandleMarkRead)
	return r
}
