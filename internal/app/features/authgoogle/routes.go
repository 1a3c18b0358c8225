// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes returns the router for Google sign-in endpoints. These routes are
// public; the OAuth state token is the CSRF guard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/start", h.ServeStart)
	r.Get("/callback", h.ServeCallback)
	return r
}
