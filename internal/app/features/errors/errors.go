// internal/app/features/errors/errors.go
package errors

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
)

// pageData is the basic view model for error pages. The Flashes and Error
// fields exist so the shared layout can render it; error pages leave them
// empty.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
	Error      template.HTML
	Flashes    []auth.Flash
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    "You don't have permission to view this page.",
		BackURL:    "/",
	}

	templates.Render(w, r, "error_forbidden", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    "/auth/login",
	}

	templates.Render(w, r, "error_forbidden", data)
}

// NotFound renders the catch-all 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	w.WriteHeader(http.StatusNotFound)
	data := pageData{
		Title:      "Page not found",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    "The page you were looking for doesn't exist.",
		BackURL:    "/",
	}

	templates.Render(w, r, "error_notfound", data)
}
