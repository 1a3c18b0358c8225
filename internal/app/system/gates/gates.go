// Package gates provides authorization gate functions for HTTP handlers.
//
// Route-level middleware (auth.RequireSignedIn) handles the signed-in check;
// gates cover handlers that additionally need a role check, and the policy
// layer (internal/app/policy/*) covers checks that depend on the specific
// resource (project ownership). Gates render the error page themselves and
// return the caller's context, so handlers read:
//
//	g := gates.RequireProjectPoster(w, r, "/projects")
//	if !g.OK {
//	    return
//	}
package gates

import (
	"net/http"

	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the outcome of a gate check.
type Result struct {
	Role      models.Role
	Handle    string
	ProfileID primitive.ObjectID
	OK        bool
}

// RequireAuth ensures a user is authenticated, rendering the sign-in page
// prompt when not.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, handle, pid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/auth/login")
		return Result{OK: false}
	}
	return Result{Role: role, Handle: handle, ProfileID: pid, OK: true}
}

// RequireProjectPoster ensures the caller is signed in with a role that may
// create projects (researcher or company). Other roles get the permission
// page with an invitation to browse instead.
func RequireProjectPoster(w http.ResponseWriter, r *http.Request, fallbackURL string) Result {
	role, handle, pid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/auth/login")
		return Result{OK: false}
	}
	if !role.CanPostProjects() {
		uierrors.RenderForbidden(w, r,
			"Only researchers and companies can create projects. Students can browse and apply.",
			fallbackURL)
		return Result{OK: false}
	}
	return Result{Role: role, Handle: handle, ProfileID: pid, OK: true}
}
