// internal/app/features/projects/mine.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mineData struct {
	viewdata.BaseVM
	Projects []projectVM
}

// ServeMine handles GET /projects/mine, the owner's own postings.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListByPoster(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: list mine failed", err, "A database error occurred.", "/dashboard")
		return
	}

	vms, err := h.decorate(ctx, projects, primitive.NilObjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: decorate failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := mineData{
		BaseVM:   viewdata.NewBaseVM(r, "My projects", "/dashboard"),
		Projects: vms,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	templates.Render(w, r, "project_mine", data)
}

// applicationVM pairs a participation row with its project for listing.
type applicationVM struct {
	Participation models.ProjectParticipant
	Project       models.Project
	HaveProject   bool
}

type applicationsData struct {
	viewdata.BaseVM
	Applications []applicationVM
}

// ServeMyApplications handles GET /projects/applications, the viewer's own
// application history (pending and accepted).
func (h *Handler) ServeMyApplications(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Participants.ListByProfile(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: list failed", err, "A database error occurred.", "/dashboard")
		return
	}

	var projectIDs []primitive.ObjectID
	for _, row := range rows {
		projectIDs = append(projectIDs, row.ProjectID)
	}
	projects, err := h.Projects.GetManyByIDs(ctx, projectIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: load projects failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := applicationsData{
		BaseVM: viewdata.NewBaseVM(r, "My applications", "/dashboard"),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	for _, row := range rows {
		p, have := projects[row.ProjectID]
		data.Applications = append(data.Applications, applicationVM{
			Participation: row,
			Project:       p,
			HaveProject:   have,
		})
	}

	templates.Render(w, r, "project_applications", data)
}
