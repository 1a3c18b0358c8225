// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/gates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/htmlsanitize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createFormData struct {
	viewdata.BaseVM
	Form             createForm
	Types            []models.ProjectTypeOption
	Specializations  []models.SpecializationOption
	AllKeywords      []models.Keyword
	SelectedKeywords map[primitive.ObjectID]bool
}

// createForm echoes submitted values back into the form on re-render.
type createForm struct {
	Title          string
	Description    string
	Type           string
	Specialization string
	Duration       string
	Prerequisites  string
	Budget         string
}

// createInput is the validated creation form.
type createInput struct {
	Title          string `validate:"required,max=300" label:"Title"`
	Description    string `validate:"required,max=8000" label:"Description"`
	Type           string `validate:"required" label:"Project type"`
	Specialization string `validate:"required" label:"Specialization needed"`
	Duration       string `validate:"max=120" label:"Duration"`
	Prerequisites  string `validate:"max=2000" label:"Prerequisites"`
	Budget         string `validate:"omitempty,numeric" label:"Budget"`
}

// ServeNew handles GET /projects/create. Only researchers and companies may
// post; others get the permission page.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireProjectPoster(w, r, "/projects")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	kws, err := h.Keywords.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: list keywords failed", err, "A database error occurred.", "/projects")
		return
	}

	data := createFormData{
		BaseVM:           viewdata.NewBaseVM(r, "Post a project", "/projects"),
		Types:            models.AllProjectTypes,
		Specializations:  models.AllSpecializations,
		AllKeywords:      kws,
		SelectedKeywords: map[primitive.ObjectID]bool{},
	}
	templates.Render(w, r, "project_create", data)
}

// HandleCreate handles POST /projects/create. The poster is always the
// calling profile; nothing client-side can set posted_by.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireProjectPoster(w, r, "/projects")
	if !g.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "projects: parse form failed", err, "Invalid form data.", "/projects/create")
		return
	}

	form := createForm{
		Title:          normalize.Name(r.FormValue("title")),
		Description:    htmlsanitize.Sanitize(r.FormValue("description")),
		Type:           normalize.Enum(r.FormValue("type")),
		Specialization: normalize.Enum(r.FormValue("specialization")),
		Duration:       normalize.QueryParam(r.FormValue("duration")),
		Prerequisites:  htmlsanitize.Sanitize(r.FormValue("prerequisites")),
		Budget:         normalize.QueryParam(r.FormValue("budget")),
	}

	var keywordIDs []primitive.ObjectID
	selected := map[primitive.ObjectID]bool{}
	for _, raw := range r.Form["keyword_ids"] {
		kid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		keywordIDs = append(keywordIDs, kid)
		selected[kid] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	renderWithError := func(msg string) {
		kws, err := h.Keywords.List(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: list keywords failed", err, "A database error occurred.", "/projects")
			return
		}
		data := createFormData{
			BaseVM:           viewdata.NewBaseVM(r, "Post a project", "/projects"),
			Form:             form,
			Types:            models.AllProjectTypes,
			Specializations:  models.AllSpecializations,
			AllKeywords:      kws,
			SelectedKeywords: selected,
		}
		data.SetError(msg)
		templates.Render(w, r, "project_create", data)
	}

	in := createInput(form)
	if res := inputval.Validate(in); res.HasErrors() {
		renderWithError(res.First())
		return
	}

	ptype := models.ProjectType(form.Type)
	if !ptype.IsValid() {
		renderWithError("Please choose a valid project type.")
		return
	}
	spec := models.Specialization(form.Specialization)
	if !spec.IsValid() {
		renderWithError("Please choose a valid specialization.")
		return
	}

	p, err := h.Projects.Create(ctx, models.Project{
		Title:                form.Title,
		PostedBy:             g.ProfileID,
		Description:          form.Description,
		Type:                 ptype,
		Status:               models.StatusOpen,
		SpecializationNeeded: spec,
		KeywordIDs:           keywordIDs,
		Duration:             form.Duration,
		Prerequisites:        form.Prerequisites,
		Budget:               form.Budget,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: create failed", err, "Unable to create the project.", "/projects/create")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Project created.")
	http.Redirect(w, r, "/projects/"+p.ID.Hex(), http.StatusSeeOther)
}
