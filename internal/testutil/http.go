package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithUser injects the given account into the request context, bypassing
// the session middleware.
func WithUser(r *http.Request, user models.User, profile models.Profile) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:        user.ID.Hex(),
		ProfileID: profile.ID.Hex(),
		Handle:    user.Handle,
		Email:     user.Email,
		Role:      string(profile.Role),
	}
	return auth.WithTestUser(r, sessionUser)
}

// WithFakeUser injects a synthetic signed-in user with the given role.
func WithFakeUser(r *http.Request, role models.Role) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: primitive.NewObjectID().Hex(),
		Handle:    "testuser",
		Email:     "testuser@test.com",
		Role:      string(role),
	}
	return auth.WithTestUser(r, sessionUser)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}
