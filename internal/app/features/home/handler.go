// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	eventstore "github.com/sciencebridge/sciencebridge/internal/app/store/events"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Projects   *projectstore.Store
	Events     *eventstore.Store
}

// NewHandler constructs a home Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		Projects:   projectstore.New(db),
		Events:     eventstore.New(db),
	}
}

type homeData struct {
	viewdata.BaseVM
	ProjectCount int64
	Recent       []models.Project
	Upcoming     []models.Event
}

// ServeHome handles GET /. Signed-in users are sent to their dashboard.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	// Landing page teasers; failures degrade to an empty section.
	if n, err := h.Projects.Count(ctx); err == nil {
		data.ProjectCount = n
	}
	if recent, err := h.Projects.ListRecent(ctx, 5); err == nil {
		data.Recent = recent
	} else {
		h.Log.Warn("home: list recent projects failed", zap.Error(err))
	}
	if upcoming, err := h.Events.ListUpcoming(ctx, 3); err == nil {
		data.Upcoming = upcoming
	} else {
		h.Log.Warn("home: list upcoming events failed", zap.Error(err))
	}

	templates.Render(w, r, "home", data)
}
