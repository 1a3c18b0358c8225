// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts the dashboard under "/dashboard".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.Serve)
	return r
}

// SuggestionRoutes mounts the suggestions page under "/suggestions".
func SuggestionRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSuggestions)
	return r
}
