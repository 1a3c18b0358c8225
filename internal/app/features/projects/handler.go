// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	keywordstore "github.com/sciencebridge/sciencebridge/internal/app/store/keywords"
	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/policy/projectpolicy"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Projects: discovery,
// creation, the application workflow, and owner listings.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Projects     *projectstore.Store
	Participants *participantstore.Store
	Keywords     *keywordstore.Store
	Profiles     *profilestore.Store
	Users        *userstore.Store
	Policy       *projectpolicy.Policy
}

// NewHandler constructs a Projects handler bound to a DB and logger.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	projects := projectstore.New(db)
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Projects:     projects,
		Participants: participantstore.New(db),
		Keywords:     keywordstore.New(db),
		Profiles:     profilestore.New(db),
		Users:        userstore.New(db),
		Policy:       projectpolicy.New(projects),
	}
}

// projectVM is a project row decorated for listings.
type projectVM struct {
	models.Project
	HasApplied  bool
	PosterName  string
	KeywordTags []string
}

// decorate joins poster handles and keyword labels onto projects, and flags
// the ones the viewer already applied to.
func (h *Handler) decorate(ctx context.Context, projects []models.Project, viewerProfileID primitive.ObjectID) ([]projectVM, error) {
	applied := map[primitive.ObjectID]bool{}
	if !viewerProfileID.IsZero() {
		var err error
		applied, err = h.Participants.ProjectIDsForProfile(ctx, viewerProfileID)
		if err != nil {
			return nil, err
		}
	}

	var posterIDs, keywordIDs []primitive.ObjectID
	seenPoster := map[primitive.ObjectID]bool{}
	seenKw := map[primitive.ObjectID]bool{}
	for _, p := range projects {
		if !seenPoster[p.PostedBy] {
			seenPoster[p.PostedBy] = true
			posterIDs = append(posterIDs, p.PostedBy)
		}
		for _, kid := range p.KeywordIDs {
			if !seenKw[kid] {
				seenKw[kid] = true
				keywordIDs = append(keywordIDs, kid)
			}
		}
	}

	profiles, err := h.Profiles.GetManyByIDs(ctx, posterIDs)
	if err != nil {
		return nil, err
	}
	var userIDs []primitive.ObjectID
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := h.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	keywords, err := h.Keywords.GetManyByIDs(ctx, keywordIDs)
	if err != nil {
		return nil, err
	}

	out := make([]projectVM, 0, len(projects))
	for _, p := range projects {
		vm := projectVM{Project: p, HasApplied: applied[p.ID]}
		if prof, ok := profiles[p.PostedBy]; ok {
			if u, ok := users[prof.UserID]; ok {
				vm.PosterName = u.Handle
			}
		}
		for _, kid := range p.KeywordIDs {
			if k, ok := keywords[kid]; ok {
				vm.KeywordTags = append(vm.KeywordTags, k.Label)
			}
		}
		out = append(out, vm)
	}
	return out, nil
}

// projectID parses the {id} URL parameter; a malformed ID renders 404.
func (h *Handler) projectID(w http.ResponseWriter, r *http.Request, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
		return primitive.NilObjectID, false
	}
	return id, true
}

// invalidMethod answers a GET on a mutating endpoint: advise and bounce.
func (h *Handler) invalidMethod(redirect string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.SessionMgr.AddFlash(w, r, "error", "Invalid request method.")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}
