// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	orgstore "github.com/sciencebridge/sciencebridge/internal/app/store/organizations"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/htmlsanitize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/uploads"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile: view, edit, CV upload.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Store        storage.Store
	UploadPolicy uploads.Policy
	Profiles     *profilestore.Store
	Orgs         *orgstore.Store
	Keywords     *keywordstore.Store
}

// NewHandler constructs a profile Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, store storage.Store, policy uploads.Policy, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Store:        store,
		UploadPolicy: policy,
		Profiles:     profilestore.New(db),
		Orgs:         orgstore.New(db),
		Keywords:     keywordstore.New(db),
	}
}

type profileViewData struct {
	viewdata.BaseVM
	Profile      *models.Profile
	Organization *models.Organization
	Keywords     []models.Keyword
	CVURL        string
}

type profileEditData struct {
	viewdata.BaseVM
	Profile          *models.Profile
	OrgIDHex         string
	Organizations    []models.Organization
	AllKeywords      []models.Keyword
	InstitutionTypes []models.InstitutionOption
	Specializations  []models.SpecializationOption
	SelectedKeywords map[primitive.ObjectID]bool
}

// editInput is the validated profile edit form.
type editInput struct {
	Specialization string `validate:"required" label:"Specialization"`
	Bio            string `validate:"max=4000" label:"Bio"`
	ContactEmail   string `validate:"omitempty,email,max=254" label:"Contact email"`
	Phone          string `validate:"max=32" label:"Phone"`
}

// ServeView handles GET /profile.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := profileViewData{
		BaseVM:  viewdata.NewBaseVM(r, "My profile", "/dashboard"),
		Profile: p,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	if p.OrganizationID != nil {
		if org, err := h.Orgs.GetByID(ctx, *p.OrganizationID); err == nil {
			data.Organization = org
		}
	}
	if len(p.KeywordIDs) > 0 {
		if byID, err := h.Keywords.GetManyByIDs(ctx, p.KeywordIDs); err == nil {
			for _, id := range p.KeywordIDs {
				if k, ok := byID[id]; ok {
					data.Keywords = append(data.Keywords, k)
				}
			}
		}
	}
	if p.CVPath != "" {
		data.CVURL = h.Store.URL(p.CVPath)
	}

	templates.Render(w, r, "profile_view", data)
}

// ServeEdit handles GET /profile/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load failed", err, "A database error occurred.", "/profile")
		return
	}

	data, err := h.buildEditData(ctx, r, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load pickers failed", err, "A database error occurred.", "/profile")
		return
	}
	templates.Render(w, r, "profile_edit", data)
}

// HandleEdit handles POST /profile/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: parse form failed", err, "Invalid form data.", "/profile/edit")
		return
	}

	in := editInput{
		Specialization: normalize.Enum(r.FormValue("specialization")),
		Bio:            htmlsanitize.Sanitize(r.FormValue("bio")),
		ContactEmail:   normalize.Email(r.FormValue("contact_email")),
		Phone:          normalize.QueryParam(r.FormValue("phone")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load failed", err, "A database error occurred.", "/profile")
		return
	}

	renderWithError := func(msg string) {
		data, derr := h.buildEditData(ctx, r, p)
		if derr != nil {
			h.ErrLog.LogServerError(w, r, "profile: load pickers failed", derr, "A database error occurred.", "/profile")
			return
		}
		data.SetError(msg)
		templates.Render(w, r, "profile_edit", data)
	}

	if res := inputval.Validate(in); res.HasErrors() {
		renderWithError(res.First())
		return
	}

	spec := models.Specialization(in.Specialization)
	if !spec.IsValid() {
		renderWithError("Please choose a valid specialization.")
		return
	}

	instType := models.InstitutionType(normalize.Enum(r.FormValue("institution_type")))
	if instType != "" && !instType.IsValid() {
		renderWithError("Please choose a valid institution type.")
		return
	}

	var orgID *primitive.ObjectID
	if raw := r.FormValue("organization_id"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			renderWithError("Please choose a valid organization.")
			return
		}
		orgID = &oid
	}

	var keywordIDs []primitive.ObjectID
	for _, raw := range r.Form["keyword_ids"] {
		kid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}
		keywordIDs = append(keywordIDs, kid)
	}

	upd := profilestore.Update{
		InstitutionType: instType,
		OrganizationID:  orgID,
		Specialization:  spec,
		KeywordIDs:      keywordIDs,
		Bio:             in.Bio,
		ContactEmail:    in.ContactEmail,
		Phone:           in.Phone,
	}
	if err := h.Profiles.Apply(ctx, profileID, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update failed", err, "Unable to save your profile.", "/profile/edit")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Profile updated.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleCVUpload handles POST /profile/cv.
func (h *Handler) HandleCVUpload(w http.ResponseWriter, r *http.Request) {
	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if err := r.ParseMultipartForm(h.UploadPolicy.MaxSize + 1<<20); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: parse multipart failed", err, "Invalid upload.", "/profile")
		return
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		h.SessionMgr.AddFlash(w, r, "error", "Please choose a file to upload.")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := h.UploadPolicy.Validate(header.Filename, header.Size, contentType); err != nil {
		h.SessionMgr.AddFlash(w, r, "error", err.Error())
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := uploads.Save(ctx, h.Store, "cvs", header.Filename, file, header.Size, contentType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: store cv failed", err, "Unable to store your CV.", "/profile")
		return
	}

	if err := h.Profiles.SetCVPath(ctx, profileID, info.Path); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: record cv path failed", err, "Unable to store your CV.", "/profile")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "CV uploaded.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) buildEditData(ctx context.Context, r *http.Request, p *models.Profile) (profileEditData, error) {
	orgs, err := h.Orgs.List(ctx)
	if err != nil {
		return profileEditData{}, err
	}
	kws, err := h.Keywords.List(ctx)
	if err != nil {
		return profileEditData{}, err
	}

	selected := make(map[primitive.ObjectID]bool, len(p.KeywordIDs))
	for _, id := range p.KeywordIDs {
		selected[id] = true
	}

	orgIDHex := ""
	if p.OrganizationID != nil {
		orgIDHex = p.OrganizationID.Hex()
	}

	return profileEditData{
		BaseVM:           viewdata.NewBaseVM(r, "Edit profile", "/profile"),
		Profile:          p,
		OrgIDHex:         orgIDHex,
		Organizations:    orgs,
		AllKeywords:      kws,
		InstitutionTypes: models.AllInstitutionTypes,
		Specializations:  models.AllSpecializations,
		SelectedKeywords: selected,
	}, nil
}
