// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Handler serves account registration. Registration creates the login
// account and its profile in one step; the chosen role is fixed afterward.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
	Profiles   *profilestore.Store
}

// NewHandler constructs a register Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
		Profiles:   profilestore.New(db),
	}
}

type registerFormData struct {
	viewdata.BaseVM
	Handle         string
	Email          string
	Role           string
	Specialization string

	Roles           []models.RoleOption
	Specializations []models.SpecializationOption
}

// registerInput is the validated registration form.
type registerInput struct {
	Handle         string `validate:"required,min=3,max=64" label:"Username"`
	Email          string `validate:"required,email,max=254" label:"Email"`
	Password       string `validate:"required,min=8,max=128" label:"Password"`
	Role           string `validate:"required" label:"Account type"`
	Specialization string `validate:"required" label:"Specialization"`
}

// ServeForm handles GET /auth/register.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	data := registerFormData{
		BaseVM:          viewdata.NewBaseVM(r, "Create an account", "/"),
		Roles:           models.AllRoles,
		Specializations: models.AllSpecializations,
	}
	templates.Render(w, r, "register", data)
}

// HandlePost handles POST /auth/register. On success the new user is signed
// in and sent to their dashboard; validation problems re-render the form
// with an inline error.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: parse form failed", err, "Invalid form data.", "/auth/register")
		return
	}

	in := registerInput{
		Handle:         normalize.Handle(r.FormValue("handle")),
		Email:          normalize.Email(r.FormValue("email")),
		Password:       r.FormValue("password"),
		Role:           normalize.Enum(r.FormValue("role")),
		Specialization: normalize.Enum(r.FormValue("specialization")),
	}

	data := registerFormData{
		BaseVM:          viewdata.NewBaseVM(r, "Create an account", "/"),
		Handle:          in.Handle,
		Email:           in.Email,
		Role:            in.Role,
		Specialization:  in.Specialization,
		Roles:           models.AllRoles,
		Specializations: models.AllSpecializations,
	}

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.First())
		templates.Render(w, r, "register", data)
		return
	}

	role := models.Role(in.Role)
	if !role.IsValid() {
		data.SetError("Please choose a valid account type.")
		templates.Render(w, r, "register", data)
		return
	}
	spec := models.Specialization(in.Specialization)
	if !spec.IsValid() {
		data.SetError("Please choose a valid specialization.")
		templates.Render(w, r, "register", data)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hash password failed", err, "Something went wrong. Please try again.", "/auth/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Handle:       in.Handle,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateHandle) {
			data.SetError("That username is already taken.")
			templates.Render(w, r, "register", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "register: create user failed", err, "Something went wrong. Please try again.", "/auth/register")
		return
	}

	p, err := h.Profiles.Create(ctx, models.Profile{
		UserID:         u.ID,
		Role:           role,
		Specialization: spec,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: create profile failed", err, "Something went wrong. Please try again.", "/auth/register")
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
		h.Log.Error("register: sign-in after create failed", zap.Error(err))
	}

	h.SessionMgr.AddFlash(w, r, "success", "Welcome to ScienceBridge!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
