// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts the owner-side application management routes under
// "/applications".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/{projectID}", h.ServeManage)
	r.Post("/{projectID}/accept/{profileID}", h.HandleAccept)
	r.Post("/{projectID}/reject/{profileID}", h.HandleReject)
	return r
}
