// internal/app/features/documents/routes.go
package documents

import (
	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
)

// Routes mounts the document library under "/documents".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Post("/upload", h.HandleUpload)
	r.Get("/{id}/download", h.HandleDownload)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
