package projects_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/features/projects"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/indexes"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*projects.Handler, *testutil.Fixtures) {
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

	return projects.NewHandler(db, sessionMgr, errLog, logger), testutil.NewFixtures(t, db)
}

func applyRequest(projectHex string, user models.User, profile models.Profile) *http.Request {
	req := httptest.NewRequest("POST", "/projects/"+projectHex+"/apply", nil)
	req = testutil.WithChiURLParam(req, "id", projectHex)
	return testutil.WithUser(req, user, profile)
}

func withdrawRequest(projectHex string, user models.User, profile models.Profile) *http.Request {
	req := httptest.NewRequest("POST", "/projects/"+projectHex+"/withdraw", nil)
	req = testutil.WithChiURLParam(req, "id", projectHex)
	return testutil.WithUser(req, user, profile)
}

func TestHandleApply_Success(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	studentUser, studentProfile := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Open Project", poster.ID)

	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, applyRequest(project.ID.Hex(), studentUser, studentProfile))

	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())

	exists, err := h.Participants.Exists(ctx, project.ID, studentProfile.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("application row not created")
	}
}

func TestHandleApply_RoleNotAllowed(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	companyUser, companyProfile := f.CreateAccount(ctx, "acme", models.RoleCompany)
	project := f.CreateProject(ctx, "Open Project", poster.ID)

	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, applyRequest(project.ID.Hex(), companyUser, companyProfile))

	// State conflicts and role gates redirect with an advisory; no row.
	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())

	exists, err := h.Participants.Exists(ctx, project.ID, companyProfile.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("application created despite disallowed role")
	}
}

func TestHandleApply_ClosedProject(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	studentUser, studentProfile := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProjectWithStatus(ctx, "Done Project", poster.ID, models.StatusCompleted)

	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, applyRequest(project.ID.Hex(), studentUser, studentProfile))

	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())

	exists, err := h.Participants.Exists(ctx, project.ID, studentProfile.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("application created for a closed project")
	}
}

func TestHandleApply_Duplicate(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	studentUser, studentProfile := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Open Project", poster.ID)

	if _, err := h.Participants.Apply(ctx, project.ID, studentProfile.ID); err != nil {
		t.Fatalf("seed application failed: %v", err)
	}

	rec := testutil.NewRecorder()
	h.HandleApply(rec.ResponseRecorder, applyRequest(project.ID.Hex(), studentUser, studentProfile))

	// The duplicate surfaces as an advisory redirect, not an error page.
	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())
}

func TestHandleWithdraw_Success(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	studentUser, studentProfile := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Open Project", poster.ID)

	if _, err := h.Participants.Apply(ctx, project.ID, studentProfile.ID); err != nil {
		t.Fatalf("seed application failed: %v", err)
	}

	rec := testutil.NewRecorder()
	h.HandleWithdraw(rec.ResponseRecorder, withdrawRequest(project.ID.Hex(), studentUser, studentProfile))

	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())

	exists, err := h.Participants.Exists(ctx, project.ID, studentProfile.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("application row still present after withdraw")
	}
}

func TestHandleWithdraw_NoApplication(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	_, poster := f.CreateAccount(ctx, "poster", models.RoleResearcher)
	studentUser, studentProfile := f.CreateAccount(ctx, "student", models.RoleStudent)
	project := f.CreateProject(ctx, "Open Project", poster.ID)

	rec := testutil.NewRecorder()
	h.HandleWithdraw(rec.ResponseRecorder, withdrawRequest(project.ID.Hex(), studentUser, studentProfile))

	rec.AssertRedirect(t, "/projects/"+project.ID.Hex())
}
