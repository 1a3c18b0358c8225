// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts all Project routes under the base path (typically
// "/projects" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Discovery is public.
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE (role-gated inside the handler for the friendly page)
		pr.Get("/create", h.ServeNew)
		pr.Post("/create", h.HandleCreate)

		// OWN LISTINGS
		pr.Get("/mine", h.ServeMine)
		pr.Get("/applications", h.ServeMyApplications)

		// APPLICATION WORKFLOW (mutations answer POST only; a stray GET
		// gets an advisory and a bounce)
		pr.Post("/{id}/apply", h.HandleApply)
		pr.Get("/{id}/apply", h.invalidMethod("/projects"))
		pr.Post("/{id}/withdraw", h.HandleWithdraw)
		pr.Get("/{id}/withdraw", h.invalidMethod("/projects"))

		// OWNER EDIT
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
	})

	// DETAIL is public; registered last so /create, /mine, /applications
	// match their own routes first.
	r.Get("/{id}", h.ServeDetail)

	return r
}
