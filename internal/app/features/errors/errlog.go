// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call: the technical detail goes to the
// log, the friendly message goes to the browser.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger over the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal failure and renders a 500 error page.
// userMsg is shown to the user; backURL defaults to "/" when empty.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs a malformed request and renders a 400 error page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	e.render(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}

	w.WriteHeader(status)
	data := pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    userMsg,
		BackURL:    backURL,
	}
	templates.Render(w, r, "error_server", data)
}
