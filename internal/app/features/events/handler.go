// internal/app/features/events/handler.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	eventpartstore "github.com/sciencebridge/sciencebridge/internal/app/store/eventparticipants"
	eventstore "github.com/sciencebridge/sciencebridge/internal/app/store/events"
	orgstore "github.com/sciencebridge/sciencebridge/internal/app/store/organizations"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the event listing and registration. Registration is
// one-way; there is no unregister operation.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Events       *eventstore.Store
	Participants *eventpartstore.Store
	Orgs         *orgstore.Store
}

// NewHandler constructs an events Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Events:       eventstore.New(db),
		Participants: eventpartstore.New(db),
		Orgs:         orgstore.New(db),
	}
}

// eventVM joins an event with its organizer name, the viewer's registration
// state, and the running registration count.
type eventVM struct {
	Event           models.Event
	Organizer       string
	Registered      bool
	RegisteredCount int64
}

type listData struct {
	viewdata.BaseVM
	Events []eventVM
}

// ServeList handles GET /events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, profileID, signedIn := authz.UserCtx(r)

	events, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "events: list failed", err, "A database error occurred.", "/")
		return
	}

	var orgIDs []primitive.ObjectID
	for _, e := range events {
		if e.OrganizerID != nil {
			orgIDs = append(orgIDs, *e.OrganizerID)
		}
	}
	orgs, err := h.Orgs.GetManyByIDs(ctx, orgIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "events: load organizers failed", err, "A database error occurred.", "/")
		return
	}

	registered := map[primitive.ObjectID]bool{}
	if signedIn {
		registered, err = h.Participants.EventIDsForProfile(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "events: load registrations failed", err, "A database error occurred.", "/")
			return
		}
	}

	data := listData{BaseVM: viewdata.NewBaseVM(r, "Events", "/")}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	for _, e := range events {
		vm := eventVM{Event: e, Registered: registered[e.ID]}
		if e.OrganizerID != nil {
			if o, ok := orgs[*e.OrganizerID]; ok {
				vm.Organizer = o.Name
			}
		}
		vm.RegisteredCount, err = h.Participants.CountForEvent(ctx, e.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "events: count registrations failed", err, "A database error occurred.", "/")
			return
		}
		data.Events = append(data.Events, vm)
	}

	templates.Render(w, r, "event_list", data)
}

// HandleRegister handles POST /events/{id}/register. The unique index on
// (event_id, profile_id) is the duplicate guard; a second registration
// surfaces as an advisory, not an error.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event doesn't exist.", "/events")
		return
	}

	if _, err := h.Events.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That event doesn't exist.", "/events")
			return
		}
		h.ErrLog.LogServerError(w, r, "events: load failed", err, "A database error occurred.", "/events")
		return
	}

	if _, err := h.Participants.Register(ctx, id, profileID); err != nil {
		if errors.Is(err, eventpartstore.ErrAlreadyRegistered) {
			h.SessionMgr.AddFlash(w, r, "info", "You are already registered for this event.")
			http.Redirect(w, r, "/events", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "events: register failed", err, "Unable to register for the event.", "/events")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "You have been registered for the event.")
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

// ServeRegisterAdvisory handles GET on the register endpoint. Mutations are
// POST-only; a GET gets a flash and a redirect, never an error page.
func (h *Handler) ServeRegisterAdvisory(w http.ResponseWriter, r *http.Request) {
	h.SessionMgr.AddFlash(w, r, "warning", "Invalid request method.")
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}
