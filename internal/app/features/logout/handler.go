// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves sign-out.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

// NewHandler constructs a logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, SessionMgr: sessionMgr}
}

// HandlePost handles POST /auth/logout. Sign-out is a state change, so it
// only answers POST; a stray GET is redirected home untouched.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: clear session failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
