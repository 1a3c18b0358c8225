package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_SignedIn(t *testing.T) {
	profileID := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: profileID.Hex(),
		Handle:    "alice",
		Role:      "researcher",
	})

	role, handle, gotProfileID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected signed-in context")
	}
	if role != models.RoleResearcher {
		t.Errorf("role: got %q, want %q", role, models.RoleResearcher)
	}
	if handle != "alice" {
		t.Errorf("handle: got %q", handle)
	}
	if gotProfileID != profileID {
		t.Errorf("profileID: got %s, want %s", gotProfileID.Hex(), profileID.Hex())
	}
}

func TestUserCtx_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected no user for anonymous request")
	}
}

func TestCanPostProjects(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"researcher", true},
		{"company", true},
		{"student", false},
		{"university", false},
		{"association", false},
		{"medical", false},
	}
	for _, tc := range cases {
		req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
			ID:        primitive.NewObjectID().Hex(),
			ProfileID: primitive.NewObjectID().Hex(),
			Role:      tc.role,
		})
		if got := authz.CanPostProjects(req); got != tc.want {
			t.Errorf("CanPostProjects(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestCanApplyToProjects(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"student", true},
		{"researcher", true},
		{"company", false},
		{"university", false},
	}
	for _, tc := range cases {
		req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
			ID:        primitive.NewObjectID().Hex(),
			ProfileID: primitive.NewObjectID().Hex(),
			Role:      tc.role,
		})
		if got := authz.CanApplyToProjects(req); got != tc.want {
			t.Errorf("CanApplyToProjects(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
