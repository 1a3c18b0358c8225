package documents_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	"github.com/sciencebridge/sciencebridge/internal/app/features/documents"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/uploads"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"github.com/sciencebridge/sciencebridge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*documents.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger)

	store, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir(), BaseURL: "/files"})
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	policy := uploads.NewPolicy(10<<20, nil, nil)

	return documents.NewHandler(db, sessionMgr, errLog, store, policy, logger), testutil.NewFixtures(t, db)
}

// uploadRequest builds a multipart POST with a single file part named
// "document".
func uploadRequest(t *testing.T, filename, contentType string, content []byte, user models.User, profile models.Profile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, user, profile)
}

func TestHandleUpload_Success(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "owner", models.RoleResearcher)

	rec := testutil.NewRecorder()
	req := uploadRequest(t, "report.pdf", "application/pdf", []byte("%PDF-1.4 test"), user, profile)
	h.HandleUpload(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/documents")

	docs, err := h.Documents.ListByOwner(ctx, profile.ID)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].FileName != "report.pdf" {
		t.Errorf("FileName: got %q", docs[0].FileName)
	}
}

func TestHandleUpload_RejectsDisallowedExtension(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "owner", models.RoleResearcher)

	rec := testutil.NewRecorder()
	req := uploadRequest(t, "tool.exe", "application/octet-stream", []byte("MZ"), user, profile)

	// The rejection path re-renders the page, which may panic without an
	// initialized template engine.
	func() {
		defer func() { recover() }()
		h.HandleUpload(rec.ResponseRecorder, req)
	}()

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("rejected upload redirected to %q, want inline re-render", loc)
	}

	docs, err := h.Documents.ListByOwner(ctx, profile.ID)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("rejected upload created %d document records, want 0", len(docs))
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := testutil.TestContext(t)

	user, profile := f.CreateAccount(ctx, "owner", models.RoleResearcher)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("title", "No file attached"); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart failed: %v", err)
	}
	req := httptest.NewRequest("POST", "/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, user, profile)

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		h.HandleUpload(rec.ResponseRecorder, req)
	}()

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("missing file redirected to %q, want inline re-render", loc)
	}

	docs, err := h.Documents.ListByOwner(ctx, profile.ID)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("missing file created %d document records, want 0", len(docs))
	}
}
