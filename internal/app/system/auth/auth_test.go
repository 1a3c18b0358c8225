package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func testSessionUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: primitive.NewObjectID().Hex(),
		Handle:    "alice",
		Email:     "alice@test.com",
		Role:      "student",
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user in a bare request")
	}
}

func TestWithTestUser(t *testing.T) {
	want := testSessionUser()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), want)

	got, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected user in context")
	}
	if got.Handle != want.Handle || got.Role != want.Role {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRequireSignedIn_RedirectsBrowser(t *testing.T) {
	sm := newSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for anonymous request")
	}))

	req := httptest.NewRequest("GET", "/projects/create", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if loc != "/auth/login?return=%2Fprojects%2Fcreate" {
		t.Errorf("redirect location: got %q", loc)
	}
}

func TestRequireSignedIn_PassesSignedIn(t *testing.T) {
	sm := newSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/dashboard", nil), testSessionUser())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler did not run for signed-in request")
	}
}

func TestSignInThenLoad(t *testing.T) {
	sm := newSessionManager(t)
	want := testSessionUser()

	// Sign in and capture the cookie.
	signInReq := httptest.NewRequest("POST", "/auth/login", nil)
	signInRec := httptest.NewRecorder()
	if err := sm.SignIn(signInRec, signInReq, want); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signInRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}

	// A follow-up request carrying the cookie gets the user in context.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user loaded from session cookie")
	}
	if got.Handle != want.Handle || got.ProfileID != want.ProfileID || got.Role != want.Role {
		t.Errorf("loaded user %+v, want %+v", got, want)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	sm := newSessionManager(t)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("SignOut did not expire the session cookie")
	}
}
