// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	docstore "github.com/sciencebridge/sciencebridge/internal/app/store/documents"
	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	messagestore "github.com/sciencebridge/sciencebridge/internal/app/store/messages"
	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const suggestionLimit = 5

// Handler serves the signed-in landing page.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Projects     *projectstore.Store
	Participants *participantstore.Store
	Profiles     *profilestore.Store
	Messages     *messagestore.Store
	Documents    *docstore.Store
	Keywords     *keywordstore.Store
}

// NewHandler constructs a dashboard Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Projects:     projectstore.New(db),
		Participants: participantstore.New(db),
		Profiles:     profilestore.New(db),
		Messages:     messagestore.New(db),
		Documents:    docstore.New(db),
		Keywords:     keywordstore.New(db),
	}
}

type dashboardData struct {
	viewdata.BaseVM
	IsPoster  bool
	CanApply  bool
	RoleLabel string

	TotalProjects int64
	OpenProjects  int64
	TotalProfiles int64

	ProjectsPosted      int64
	PendingApplications int64
	MyApplications      int64
	MessagesSent        int64
	MessagesReceived    int64
	UnreadMessages      int64
	DocumentCount       int64

	Recent      []models.Project
	Suggestions []models.Project
}

// Serve handles GET /dashboard.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	data := dashboardData{
		BaseVM:    viewdata.NewBaseVM(r, "Dashboard", "/"),
		IsPoster:  role.CanPostProjects(),
		CanApply:  role.CanApplyToProjects(),
		RoleLabel: role.Label(),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	var err error
	if data.TotalProjects, err = h.Projects.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: project count failed", err, "A database error occurred.", "/")
		return
	}
	if data.OpenProjects, err = h.Projects.CountOpen(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: open project count failed", err, "A database error occurred.", "/")
		return
	}
	if data.TotalProfiles, err = h.Profiles.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: profile count failed", err, "A database error occurred.", "/")
		return
	}
	if data.MessagesSent, err = h.Messages.CountSent(ctx, profileID); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: sent count failed", err, "A database error occurred.", "/")
		return
	}
	if data.MessagesReceived, err = h.Messages.CountReceived(ctx, profileID); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: received count failed", err, "A database error occurred.", "/")
		return
	}
	if data.UnreadMessages, err = h.Messages.CountUnread(ctx, profileID); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: unread count failed", err, "A database error occurred.", "/")
		return
	}
	if data.DocumentCount, err = h.Documents.CountByOwner(ctx, profileID); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: document count failed", err, "A database error occurred.", "/")
		return
	}

	if data.IsPoster {
		posted, err := h.Projects.CountByPoster(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: posted count failed", err, "A database error occurred.", "/")
			return
		}
		data.ProjectsPosted = posted

		pending, err := h.countPendingForOwner(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: pending count failed", err, "A database error occurred.", "/")
			return
		}
		data.PendingApplications = pending
	}

	if data.CanApply {
		applied, err := h.Participants.CountByProfile(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: application count failed", err, "A database error occurred.", "/")
			return
		}
		data.MyApplications = applied

		suggestions, err := h.suggestionsFor(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard: suggestions failed", err, "A database error occurred.", "/")
			return
		}
		data.Suggestions = suggestions
	}

	recent, err := h.Projects.ListRecent(ctx, 5)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: recent projects failed", err, "A database error occurred.", "/")
		return
	}
	data.Recent = recent

	templates.Render(w, r, "dashboard", data)
}

type suggestionsData struct {
	viewdata.BaseVM
	CanApply    bool
	Suggestions []models.Project
}

// ServeSuggestions handles GET /suggestions: open projects in the caller's
// field that the caller has not applied to.
func (h *Handler) ServeSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	data := suggestionsData{
		BaseVM:   viewdata.NewBaseVM(r, "Suggestions", "/dashboard"),
		CanApply: role.CanApplyToProjects(),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	if data.CanApply {
		suggestions, err := h.suggestionsFor(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "suggestions: query failed", err, "A database error occurred.", "/dashboard")
			return
		}
		data.Suggestions = suggestions
	}

	templates.Render(w, r, "suggestions", data)
}

// countPendingForOwner totals unaccepted applications across every project
// the profile has posted.
func (h *Handler) countPendingForOwner(ctx context.Context, posterID primitive.ObjectID) (int64, error) {
	mine, err := h.Projects.ListByPoster(ctx, posterID)
	if err != nil {
		return 0, err
	}
	if len(mine) == 0 {
		return 0, nil
	}
	ids := make([]primitive.ObjectID, 0, len(mine))
	for _, p := range mine {
		ids = append(ids, p.ID)
	}
	return h.Participants.CountPendingForProjects(ctx, ids)
}

// suggestionsFor returns open projects in the profile's field that the
// profile has not already applied to.
func (h *Handler) suggestionsFor(ctx context.Context, profileID primitive.ObjectID) ([]models.Project, error) {
	prof, err := h.Profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	candidates, err := h.Projects.MatchingSpecialization(ctx, prof.Specialization, profileID, suggestionLimit*2)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	applied, err := h.Participants.ProjectIDsForProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var out []models.Project
	for _, p := range candidates {
		if applied[p.ID] {
			continue
		}
		out = append(out, p)
		if len(out) == suggestionLimit {
			break
		}
	}
	return out, nil
}
