// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listData struct {
	viewdata.BaseVM
	Query    string
	Projects []projectVM
	CanPost  bool
	CanApply bool
}

// ServeList handles GET /projects. The q parameter searches titles,
// descriptions, and keyword labels, case-insensitively; results are
// de-duplicated even when several fields match.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	role, _, profileID, signedIn := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Tag labels widen the match set; the store ORs the ID list in.
	var kwIDs []primitive.ObjectID
	if q != "" {
		var err error
		kwIDs, err = h.Keywords.IDsMatchingLabel(ctx, q)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: keyword match failed", err, "A database error occurred.", "/")
			return
		}
	}

	found, err := h.Projects.Search(ctx, q, kwIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: search failed", err, "A database error occurred.", "/")
		return
	}

	vms, err := h.decorate(ctx, found, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: decorate failed", err, "A database error occurred.", "/")
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, "Projects", "/"),
		Query:    q,
		Projects: vms,
		CanPost:  signedIn && role.CanPostProjects(),
		CanApply: signedIn && role.CanApplyToProjects(),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	templates.Render(w, r, "project_list", data)
}
