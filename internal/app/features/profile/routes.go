// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeView)
	r.Get("/edit", h.ServeEdit)
	r.Post("/edit", h.HandleEdit)
	r.Post("/cv", h.HandleCVUpload)
	return r
}
