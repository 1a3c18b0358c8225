// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves password sign-in.
type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	Profiles      *profilestore.Store
	GoogleEnabled bool
}

// NewHandler constructs a login Handler. googleEnabled controls whether the
// "Sign in with Google" entry point is offered.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Profiles:      profilestore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Handle        string
	ReturnURL     string
	GoogleEnabled bool
}

// ServeForm handles GET /auth/login.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     urlutil.SafeReturn(query.Get(r, "return"), "", ""),
		GoogleEnabled: h.GoogleEnabled,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	templates.Render(w, r, "login", data)
}

// HandlePost handles POST /auth/login. Unknown handle and wrong password get
// the same inline error so the form doesn't leak which handles exist.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form failed", err, "Invalid form data.", "/auth/login")
		return
	}

	handle := normalize.Handle(r.FormValue("handle"))
	password := r.FormValue("password")
	returnURL := urlutil.SafeReturn(r.FormValue("return"), "", "")

	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Handle:        handle,
		ReturnURL:     returnURL,
		GoogleEnabled: h.GoogleEnabled,
	}

	if handle == "" || password == "" {
		data.SetError("Please enter your username and password.")
		templates.Render(w, r, "login", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			data.SetError("Incorrect username or password.")
			templates.Render(w, r, "login", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "login: lookup user failed", err, "Something went wrong. Please try again.", "/auth/login")
		return
	}

	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		data.SetError("Incorrect username or password.")
		templates.Render(w, r, "login", data)
		return
	}

	p, err := h.Profiles.GetByUserID(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: load profile failed", err, "Something went wrong. Please try again.", "/auth/login")
		return
	}

	su := &auth.SessionUser{
		ID:        u.ID.Hex(),
		ProfileID: p.ID.Hex(),
		Handle:    u.Handle,
		Email:     u.Email,
		Role:      string(p.Role),
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session failed", err, "Something went wrong. Please try again.", "/auth/login")
		return
	}

	dest := returnURL
	if dest == "" {
		dest = "/dashboard"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
