// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts events under "/events". The listing is public;
// registration requires a session.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Get("/{id}/register", h.ServeRegisterAdvisory)
	})
	return r
}
