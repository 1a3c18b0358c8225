// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role, handle, and profile ObjectID, plus a
// found flag. If no user is present in context or the profile ID is
// malformed, it returns ok=false, so callers can trust that ok=true means a
// valid, authenticated user with a valid profile.
func UserCtx(r *http.Request) (role models.Role, handle string, profileID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	profileID, err := primitive.ObjectIDFromHex(user.ProfileID)
	if err != nil {
		// Malformed profile ID in session. Fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return models.Role(strings.ToLower(user.Role)), user.Handle, profileID, true
}

// UserID returns the caller's account ObjectID, or NilObjectID when absent
// or malformed.
func UserID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	uid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return uid
}

// CanPostProjects reports whether the caller's role may create projects.
func CanPostProjects(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role.CanPostProjects()
}

// CanApplyToProjects reports whether the caller's role may apply to projects.
func CanApplyToProjects(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role.CanApplyToProjects()
}
