// internal/app/features/passwordreset/handler.go
package passwordreset

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/store/resettokens"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/mailer"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Handler serves the email-based password reset flow: request a link, open
// it, choose a new password.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Mailer     *mailer.Mailer
	Users      *userstore.Store
	Tokens     *resettokens.Store
	BaseURL    string
}

// NewHandler constructs a passwordreset Handler. baseURL is the public URL
// reset links are built against.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, mail *mailer.Mailer, tokens *resettokens.Store, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Mailer:     mail,
		Users:      userstore.New(db),
		Tokens:     tokens,
		BaseURL:    baseURL,
	}
}

type requestFormData struct {
	viewdata.BaseVM
	Email string
	Sent  bool
}

type confirmFormData struct {
	viewdata.BaseVM
	Token string
}

// ServeRequestForm handles GET /auth/reset.
func (h *Handler) ServeRequestForm(w http.ResponseWriter, r *http.Request) {
	data := requestFormData{
		BaseVM: viewdata.NewBaseVM(r, "Reset your password", "/auth/login"),
	}
	templates.Render(w, r, "reset_request", data)
}

// HandleRequest handles POST /auth/reset. The response is identical whether
// or not the email belongs to an account, so the form can't be used to
// probe which addresses are registered.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "reset: parse form failed", err, "Invalid form data.", "/auth/reset")
		return
	}

	email := normalize.Email(r.FormValue("email"))

	data := requestFormData{
		BaseVM: viewdata.NewBaseVM(r, "Reset your password", "/auth/login"),
		Email:  email,
		Sent:   true,
	}

	if email == "" {
		data.Sent = false
		data.SetError("Please enter your email address.")
		templates.Render(w, r, "reset_request", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("reset: lookup by email failed", zap.Error(err))
		}
		// Render the sent page regardless.
		templates.Render(w, r, "reset_request", data)
		return
	}

	token, err := h.Tokens.Create(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reset: create token failed", err, "Something went wrong. Please try again.", "/auth/reset")
		return
	}

	resetURL := h.BaseURL + "/auth/reset/confirm?token=" + url.QueryEscape(token)
	if err := h.Mailer.SendPasswordReset(u.Email, resetURL); err != nil {
		h.Log.Error("reset: send mail failed", zap.Error(err))
	}

	templates.Render(w, r, "reset_request", data)
}

// ServeConfirmForm handles GET /auth/reset/confirm?token=...; the token is
// checked without being consumed so a mistyped password doesn't burn it.
func (h *Handler) ServeConfirmForm(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Tokens.Peek(ctx, token); err != nil {
		if errors.Is(err, resettokens.ErrNotFound) {
			h.SessionMgr.AddFlash(w, r, "error", "That reset link is invalid or has expired.")
			http.Redirect(w, r, "/auth/reset", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "reset: peek token failed", err, "Something went wrong. Please try again.", "/auth/reset")
		return
	}

	data := confirmFormData{
		BaseVM: viewdata.NewBaseVM(r, "Choose a new password", "/auth/login"),
		Token:  token,
	}
	templates.Render(w, r, "reset_confirm", data)
}

// HandleConfirm handles POST /auth/reset/confirm. Consumes the token on
// success; the token stays valid while the form has errors.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "reset: parse form failed", err, "Invalid form data.", "/auth/reset")
		return
	}

	token := r.FormValue("token")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	data := confirmFormData{
		BaseVM: viewdata.NewBaseVM(r, "Choose a new password", "/auth/login"),
		Token:  token,
	}

	if len(password) < 8 {
		data.SetError("Password must be at least 8 characters.")
		templates.Render(w, r, "reset_confirm", data)
		return
	}
	if password != confirm {
		data.SetError("Passwords do not match.")
		templates.Render(w, r, "reset_confirm", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, err := h.Tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, resettokens.ErrNotFound) {
			h.SessionMgr.AddFlash(w, r, "error", "That reset link is invalid or has expired.")
			http.Redirect(w, r, "/auth/reset", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "reset: consume token failed", err, "Something went wrong. Please try again.", "/auth/reset")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reset: hash password failed", err, "Something went wrong. Please try again.", "/auth/reset")
		return
	}
	if err := h.Users.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "reset: store new password failed", err, "Something went wrong. Please try again.", "/auth/reset")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Your password has been changed. Please sign in.")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
