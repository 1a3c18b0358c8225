// internal/app/features/plans/handler.go
package plans

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	substore "github.com/sciencebridge/sciencebridge/internal/app/store/subscriptions"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// subscriptionTerm is the fixed length of a subscription. Plans are priced
// per year and nothing on the platform is gated by them.
const subscriptionTerm = 365 * 24 * time.Hour

// Handler serves the subscription plan catalog.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Subscriptions *substore.Store
}

// NewHandler constructs a plans Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Subscriptions: substore.New(db),
	}
}

type planVM struct {
	Plan       models.SubscriptionPlan
	Subscribed bool
	ExpiresAt  time.Time
}

type listData struct {
	viewdata.BaseVM
	Plans     []planVM
	IsCompany bool
}

// ServeList handles GET /plans.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, profileID, signedIn := authz.UserCtx(r)

	plans, err := h.Subscriptions.ListPlans(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "plans: list failed", err, "A database error occurred.", "/")
		return
	}

	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Subscription Plans", "/"),
		IsCompany: signedIn && role == models.RoleCompany,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	active := map[primitive.ObjectID]time.Time{}
	if data.IsCompany {
		subs, err := h.Subscriptions.ActiveForCompany(ctx, profileID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "plans: load subscriptions failed", err, "A database error occurred.", "/")
			return
		}
		for _, s := range subs {
			active[s.PlanID] = s.ExpiresAt
		}
	}

	for _, p := range plans {
		vm := planVM{Plan: p}
		if exp, ok := active[p.ID]; ok {
			vm.Subscribed = true
			vm.ExpiresAt = exp
		}
		data.Plans = append(data.Plans, vm)
	}

	templates.Render(w, r, "plan_list", data)
}

// HandleSubscribe handles POST /plans/{id}/subscribe. Company profiles only.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if role != models.RoleCompany {
		h.SessionMgr.AddFlash(w, r, "warning", "Only company profiles can subscribe to a plan.")
		http.Redirect(w, r, "/plans", http.StatusSeeOther)
		return
	}

	planID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That plan doesn't exist.", "/plans")
		return
	}
	if _, err := h.Subscriptions.GetPlan(ctx, planID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That plan doesn't exist.", "/plans")
			return
		}
		h.ErrLog.LogServerError(w, r, "plans: load plan failed", err, "A database error occurred.", "/plans")
		return
	}

	if _, err := h.Subscriptions.Subscribe(ctx, profileID, planID, subscriptionTerm); err != nil {
		h.ErrLog.LogServerError(w, r, "plans: subscribe failed", err, "Unable to subscribe to the plan.", "/plans")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Subscription activated.")
	http.Redirect(w, r, "/plans", http.StatusSeeOther)
}
