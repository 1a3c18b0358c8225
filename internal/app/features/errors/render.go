// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /auth/login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/auth/login"
	}

	w.WriteHeader(http.StatusUnauthorized)
	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusForbidden)
	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}

// RenderNotFound shows the 404 page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	role, name, _, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}
	if msg == "" {
		msg = "The page you were looking for doesn't exist."
	}

	w.WriteHeader(http.StatusNotFound)
	data := pageData{
		Title:      "Page not found",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_notfound", data)
}
