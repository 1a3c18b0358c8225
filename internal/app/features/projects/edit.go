// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/htmlsanitize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type editFormData struct {
	viewdata.BaseVM
	Project          *models.Project
	Types            []models.ProjectTypeOption
	Statuses         []models.ProjectStatusOption
	Specializations  []models.SpecializationOption
	AllKeywords      []models.Keyword
	SelectedKeywords map[primitive.ObjectID]bool
}

// requireOwner loads the project and verifies the caller manages it. The
// permission page is rendered on failure and ok is false.
func (h *Handler) requireOwner(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) (*models.Project, primitive.ObjectID, bool) {
	_, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return nil, primitive.NilObjectID, false
	}

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
			return nil, primitive.NilObjectID, false
		}
		h.ErrLog.LogServerError(w, r, "projects: load failed", err, "A database error occurred.", "/projects")
		return nil, primitive.NilObjectID, false
	}

	canManage, err := h.Policy.CanManage(ctx, id, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: ownership check failed", err, "A database error occurred.", "/projects")
		return nil, primitive.NilObjectID, false
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "Only the project owner can manage this project.", "/projects/"+id.Hex())
		return nil, primitive.NilObjectID, false
	}
	return p, profileID, true
}

// ServeEdit handles GET /projects/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, ok := h.requireOwner(ctx, w, r, id)
	if !ok {
		return
	}

	kws, err := h.Keywords.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: list keywords failed", err, "A database error occurred.", "/projects")
		return
	}

	selected := make(map[primitive.ObjectID]bool, len(p.KeywordIDs))
	for _, kid := range p.KeywordIDs {
		selected[kid] = true
	}

	data := editFormData{
		BaseVM:           viewdata.NewBaseVM(r, "Edit project", "/projects/"+id.Hex()),
		Project:          p,
		Types:            models.AllProjectTypes,
		Statuses:         models.AllProjectStatuses,
		Specializations:  models.AllSpecializations,
		AllKeywords:      kws,
		SelectedKeywords: selected,
	}
	templates.Render(w, r, "project_edit", data)
}

// HandleEdit handles POST /projects/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	dest := "/projects/" + id.Hex()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "projects: parse form failed", err, "Invalid form data.", dest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, ok := h.requireOwner(ctx, w, r, id)
	if !ok {
		return
	}

	in := createInput{
		Title:          normalize.Name(r.FormValue("title")),
		Description:    htmlsanitize.Sanitize(r.FormValue("description")),
		Type:           normalize.Enum(r.FormValue("type")),
		Specialization: normalize.Enum(r.FormValue("specialization")),
		Duration:       normalize.QueryParam(r.FormValue("duration")),
		Prerequisites:  htmlsanitize.Sanitize(r.FormValue("prerequisites")),
		Budget:         normalize.QueryParam(r.FormValue("budget")),
	}
	status := models.ProjectStatus(normalize.Enum(r.FormValue("status")))

	renderWithError := func(msg string) {
		kws, err := h.Keywords.List(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: list keywords failed", err, "A database error occurred.", dest)
			return
		}
		selected := map[primitive.ObjectID]bool{}
		for _, raw := range r.Form["keyword_ids"] {
			if kid, err := primitive.ObjectIDFromHex(raw); err == nil {
				selected[kid] = true
			}
		}
		data := editFormData{
			BaseVM:           viewdata.NewBaseVM(r, "Edit project", dest),
			Project:          p,
			Types:            models.AllProjectTypes,
			Statuses:         models.AllProjectStatuses,
			Specializations:  models.AllSpecializations,
			AllKeywords:      kws,
			SelectedKeywords: selected,
		}
		data.SetError(msg)
		templates.Render(w, r, "project_edit", data)
	}

	if res := inputval.Validate(in); res.HasErrors() {
		renderWithError(res.First())
		return
	}
	if !models.ProjectType(in.Type).IsValid() {
		renderWithError("Please choose a valid project type.")
		return
	}
	if !status.IsValid() {
		renderWithError("Please choose a valid status.")
		return
	}
	if !models.Specialization(in.Specialization).IsValid() {
		renderWithError("Please choose a valid specialization.")
		return
	}

	var keywordIDs []primitive.ObjectID
	for _, raw := range r.Form["keyword_ids"] {
		if kid, err := primitive.ObjectIDFromHex(raw); err == nil {
			keywordIDs = append(keywordIDs, kid)
		}
	}

	upd := projectstore.Update{
		Title:                in.Title,
		Description:          in.Description,
		Type:                 models.ProjectType(in.Type),
		Status:               status,
		SpecializationNeeded: models.Specialization(in.Specialization),
		KeywordIDs:           keywordIDs,
		Duration:             in.Duration,
		Prerequisites:        in.Prerequisites,
		Budget:               in.Budget,
	}
	if err := h.Projects.Apply(ctx, id, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "projects: update failed", err, "Unable to save the project.", dest)
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Project updated.")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
