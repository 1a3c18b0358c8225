package events_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/features/events"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*events.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger)

	return events.NewHandler(db, sessionMgr, errLog, logger), testutil.NewFixtures(t, db)
}

func registerRequest(eventHex string, user models.User, profile models.Profile) *http.Request {
	req := httptest.NewRequest("POST", "/events/"+eventHex+"/register", nil)
	req = testutil.WithChiURLParam(req, "id", eventHex)
	return testutil.WithUser(req, user, profile)
}

func TestHandleRegister_Success(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "student", models.RoleStudent)
	event := f.CreateEvent(ctx, "Open Lab Day", time.Now().Add(24*time.Hour))

	rec := testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, registerRequest(event.ID.Hex(), user, profile))

	rec.AssertRedirect(t, "/events")

	registered, err := h.Participants.EventIDsForProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("EventIDsForProfile failed: %v", err)
	}
	if !registered[event.ID] {
		t.Error("registration row not created")
	}
}

func TestHandleRegister_Duplicate(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "student", models.RoleStudent)
	event := f.CreateEvent(ctx, "Open Lab Day", time.Now().Add(24*time.Hour))

	if _, err := h.Participants.Register(ctx, event.ID, profile.ID); err != nil {
		t.Fatalf("seed registration failed: %v", err)
	}

	// Re-registering is an advisory redirect, not an error.
	rec := testutil.NewRecorder()
	h.HandleRegister(rec.ResponseRecorder, registerRequest(event.ID.Hex(), user, profile))

	rec.AssertRedirect(t, "/events")
}

func TestServeRegisterAdvisory_RedirectsGET(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "student", models.RoleStudent)
	event := f.CreateEvent(ctx, "Open Lab Day", time.Now().Add(24*time.Hour))

	req := httptest.NewRequest("GET", "/events/"+event.ID.Hex()+"/register", nil)
	req = testutil.WithChiURLParam(req, "id", event.ID.Hex())
	req = testutil.WithUser(req, user, profile)

	rec := testutil.NewRecorder()
	h.ServeRegisterAdvisory(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/events")

	registered, err := h.Participants.EventIDsForProfile(ctx, profile.ID)
	if err != nil {
		t.Fatalf("EventIDsForProfile failed: %v", err)
	}
	if registered[event.ID] {
		t.Error("GET request must not register")
	}
}
