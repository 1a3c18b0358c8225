// internal/app/features/projects/detail.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type detailData struct {
	viewdata.BaseVM
	Project    projectVM
	IsOwner    bool
	CanApply   bool
	HasApplied bool
	Accepted   bool
}

// ServeDetail handles GET /projects/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	role, _, profileID, signedIn := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
			return
		}
		h.ErrLog.LogServerError(w, r, "projects: load failed", err, "A database error occurred.", "/projects")
		return
	}

	vms, err := h.decorate(ctx, []models.Project{*p}, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: decorate failed", err, "A database error occurred.", "/projects")
		return
	}

	data := detailData{
		BaseVM:  viewdata.NewBaseVM(r, p.Title, "/projects"),
		Project: vms[0],
		IsOwner: signedIn && p.PostedBy == profileID,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	data.HasApplied = vms[0].HasApplied
	data.CanApply = signedIn && role.CanApplyToProjects() &&
		p.Status == models.StatusOpen && !data.IsOwner && !data.HasApplied

	if signedIn && data.HasApplied {
		if row, err := h.Participants.Get(ctx, p.ID, profileID); err == nil {
			data.Accepted = row.Accepted
		} else if !errors.Is(err, participantstore.ErrNoApplication) {
			h.Log.Warn("projects: load own application failed", zap.Error(err))
		}
	}

	templates.Render(w, r, "project_detail", data)
}
