// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	"github.com/sciencebridge/sciencebridge/internal/app/store/oauthstate"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google sign-in. Google accounts map onto existing
// ScienceBridge accounts: first by the stored Google subject claim, then by
// verified email (which links the account for next time). There is no
// account auto-creation; newcomers are sent to registration.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store
	Users      *userstore.Store
	Profiles   *profilestore.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewHandler creates a new Google sign-in handler. baseURL is the public URL
// the callback is registered under.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, stateStore *oauthstate.Store, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		StateStore:   stateStore,
		Users:        userstore.New(db),
		Profiles:     profilestore.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

// IsConfigured returns true if Google sign-in is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// ServeStart handles GET /auth/google/start and redirects to Google's
// consent screen with a stored one-time state.
func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("google sign-in not configured")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("save oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: validates state,
// exchanges the code, resolves the account, and signs the user in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google sign-in denied", zap.String("error", errParam))
		h.SessionMgr.AddFlash(w, r, "error", "Google sign-in was cancelled.")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.failLogin(w, r, "Sign-in session expired. Please try again.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctx, state)
	if err != nil {
		h.Log.Error("validate oauth state failed", zap.Error(err))
		h.failLogin(w, r, "Something went wrong. Please try again.")
		return
	}
	if !valid {
		h.failLogin(w, r, "Sign-in session expired. Please try again.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.failLogin(w, r, "Sign-in session expired. Please try again.")
		return
	}

	token, err := h.oauth2Config().Exchange(r.Context(), code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		h.failLogin(w, r, "Google sign-in failed. Please try again.")
		return
	}

	gu, err := fetchGoogleUserInfo(r.Context(), token)
	if err != nil {
		h.Log.Error("fetch google userinfo failed", zap.Error(err))
		h.failLogin(w, r, "Google sign-in failed. Please try again.")
		return
	}

	u, err := h.resolveAccount(ctx, gu)
	if err != nil {
		if errors.Is(err, errNoAccount) {
			h.SessionMgr.AddFlash(w, r, "info", "No account uses that Google address yet. Please register first.")
			http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
			return
		}
		h.Log.Error("resolve google account failed", zap.Error(err))
		h.failLogin(w, r, "Something went wrong. Please try again.")
		return
	}

	p, err := h.Profiles.GetByUserID(ctx, u.ID)
	if err != nil {
		h.Log.Error("load profile for google sign-in failed", zap.Error(err))
		h.failLogin(w, r, "Something went wrong. Please try again.")
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
		h.Log.Error("save session after google sign-in failed", zap.Error(err))
		h.failLogin(w, r, "Something went wrong. Please try again.")
		return
	}

	dest := returnURL
	if dest == "" {
		dest = "/dashboard"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

var errNoAccount = errors.New("no account for this google identity")

// resolveAccount maps a Google identity onto an account: by linked subject
// claim first, then by verified email, linking on first match.
func (h *Handler) resolveAccount(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	if u, err := h.Users.GetByGoogleSub(ctx, gu.ID); err == nil {
		return u, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if !gu.EmailVerified {
		return nil, errNoAccount
	}
	u, err := h.Users.GetByEmail(ctx, gu.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNoAccount
		}
		return nil, err
	}
	if err := h.Users.LinkGoogle(ctx, u.ID, gu.ID); err != nil {
		h.Log.Warn("link google sub failed", zap.Error(err))
	}
	return u, nil
}

func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, msg string) {
	h.SessionMgr.AddFlash(w, r, "error", msg)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo
// endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: unexpected status code %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// generateState returns a cryptographically random URL-safe state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
