// internal/app/system/auth/flash.go
package auth

import (
	"encoding/gob"
	"net/http"
)

// Flash is a one-shot advisory shown on the next rendered page. Level is one
// of "success", "info", "warning", or "error"; workflows use these for
// state-conflict advisories (duplicate application, project not open) that
// redirect successfully rather than failing the request.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// AddFlash queues an advisory on the session for the next page render.
// Failures to save the cookie are ignored; a lost advisory is not worth
// failing the request over.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	sess, _ := sm.store.Get(r, sm.name)
	sess.AddFlash(Flash{Level: level, Message: message})
	_ = sess.Save(r, w)
}

// PopFlashes returns and clears all queued advisories.
func (sm *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, _ := sm.store.Get(r, sm.name)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
