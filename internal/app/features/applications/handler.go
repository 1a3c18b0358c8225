// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/policy/projectpolicy"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the owner side of the application workflow: review
// applicants, accept, reject.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Projects     *projectstore.Store
	Participants *participantstore.Store
	Profiles     *profilestore.Store
	Users        *userstore.Store
	Policy       *projectpolicy.Policy
}

// NewHandler constructs an applications Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	projects := projectstore.New(db)
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Projects:     projects,
		Participants: participantstore.New(db),
		Profiles:     profilestore.New(db),
		Users:        userstore.New(db),
		Policy:       projectpolicy.New(projects),
	}
}

// applicantVM joins the participation row with applicant identity.
type applicantVM struct {
	Participation models.ProjectParticipant
	Handle        string
	Role          string
	Spec          string
}

type manageData struct {
	viewdata.BaseVM
	Project  *models.Project
	Pending  []applicantVM
	Accepted []applicantVM
}

// requireManageable loads the project and checks the caller owns it.
func (h *Handler) requireManageable(ctx context.Context, w http.ResponseWriter, r *http.Request, raw string) (*models.Project, bool) {
	projectID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
		return nil, false
	}

	_, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return nil, false
	}

	p, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "applications: load project failed", err, "A database error occurred.", "/projects")
		return nil, false
	}

	canManage, err := h.Policy.CanManage(ctx, projectID, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: ownership check failed", err, "A database error occurred.", "/projects")
		return nil, false
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "Only the project owner can manage its applications.", "/projects/"+projectID.Hex())
		return nil, false
	}
	return p, true
}

// ServeManage handles GET /applications/{projectID}.
func (h *Handler) ServeManage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.requireManageable(ctx, w, r, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	rows, err := h.Participants.ListByProject(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: list failed", err, "A database error occurred.", "/projects")
		return
	}

	var profileIDs []primitive.ObjectID
	for _, row := range rows {
		profileIDs = append(profileIDs, row.ProfileID)
	}
	profiles, err := h.Profiles.GetManyByIDs(ctx, profileIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: load profiles failed", err, "A database error occurred.", "/projects")
		return
	}
	var userIDs []primitive.ObjectID
	for _, prof := range profiles {
		userIDs = append(userIDs, prof.UserID)
	}
	users, err := h.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "applications: load users failed", err, "A database error occurred.", "/projects")
		return
	}

	data := manageData{
		BaseVM:  viewdata.NewBaseVM(r, "Applications: "+p.Title, "/projects/"+p.ID.Hex()),
		Project: p,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	for _, row := range rows {
		vm := applicantVM{Participation: row}
		if prof, ok := profiles[row.ProfileID]; ok {
			vm.Role = prof.Role.Label()
			vm.Spec = prof.Specialization.Label()
			if u, ok := users[prof.UserID]; ok {
				vm.Handle = u.Handle
			}
		}
		if row.Accepted {
			data.Accepted = append(data.Accepted, vm)
		} else {
			data.Pending = append(data.Pending, vm)
		}
	}

	templates.Render(w, r, "applications_manage", data)
}

// HandleAccept handles POST /applications/{projectID}/accept/{profileID}.
// Acceptance keeps the row, flips the flag, and stamps the join time.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.requireManageable(ctx, w, r, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}
	dest := "/applications/" + p.ID.Hex()

	applicantID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "profileID"))
	if err != nil {
		h.SessionMgr.AddFlash(w, r, "error", "Unknown applicant.")
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	if err := h.Participants.Accept(ctx, p.ID, applicantID); err != nil {
		if errors.Is(err, participantstore.ErrNoApplication) {
			h.SessionMgr.AddFlash(w, r, "warning", "That application no longer exists.")
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "applications: accept failed", err, "Unable to accept the application.", dest)
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Application accepted.")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// HandleReject handles POST /applications/{projectID}/reject/{profileID}.
// Rejection deletes the row outright; nothing is retained.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.requireManageable(ctx, w, r, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}
	dest := "/applications/" + p.ID.Hex()

	applicantID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "profileID"))
	if err != nil {
		h.SessionMgr.AddFlash(w, r, "error", "Unknown applicant.")
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	if err := h.Participants.Reject(ctx, p.ID, applicantID); err != nil {
		if errors.Is(err, participantstore.ErrNoApplication) {
			h.SessionMgr.AddFlash(w, r, "warning", "That application no longer exists.")
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "applications: reject failed", err, "Unable to reject the application.", dest)
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Application rejected.")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
