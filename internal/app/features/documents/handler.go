// internal/app/features/documents/handler.go
package documents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	docstore "github.com/sciencebridge/sciencebridge/internal/app/store/documents"
	projectstore "github.com/sciencebridge/sciencebridge/internal/app/store/projects"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/uploads"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a profile's document library: list, upload, download,
// delete. Every operation is scoped to the owning profile.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	SessionMgr   *auth.SessionManager
	ErrLog       *uierrors.ErrorLogger
	Documents    *docstore.Store
	Projects     *projectstore.Store
	Store        storage.Store
	UploadPolicy uploads.Policy
}

// NewHandler constructs a documents Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, store storage.Store, policy uploads.Policy, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		Documents:    docstore.New(db),
		Projects:     projectstore.New(db),
		Store:        store,
		UploadPolicy: policy,
	}
}

type documentVM struct {
	Document    models.Document
	ProjectName string
}

type listData struct {
	viewdata.BaseVM
	Documents  []documentVM
	MyProjects []models.Project
}

// ServeList handles GET /documents.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	data, err := h.buildListData(ctx, r, role, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documents: list failed", err, "A database error occurred.", "/dashboard")
		return
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)

	templates.Render(w, r, "document_list", data)
}

// buildListData assembles the document list view model. The upload handler
// reuses it to re-render the page with an inline validation error.
func (h *Handler) buildListData(ctx context.Context, r *http.Request, role models.Role, profileID primitive.ObjectID) (listData, error) {
	data := listData{BaseVM: viewdata.NewBaseVM(r, "My Documents", "/dashboard")}

	docs, err := h.Documents.ListByOwner(ctx, profileID)
	if err != nil {
		return data, err
	}

	var projectIDs []primitive.ObjectID
	for _, d := range docs {
		if d.ProjectID != nil {
			projectIDs = append(projectIDs, *d.ProjectID)
		}
	}
	projects, err := h.Projects.GetManyByIDs(ctx, projectIDs)
	if err != nil {
		return data, err
	}

	for _, d := range docs {
		vm := documentVM{Document: d}
		if d.ProjectID != nil {
			if p, ok := projects[*d.ProjectID]; ok {
				vm.ProjectName = p.Title
			}
		}
		data.Documents = append(data.Documents, vm)
	}

	// Posters may attach an upload to one of their projects.
	if role.CanPostProjects() {
		mine, err := h.Projects.ListByPoster(ctx, profileID)
		if err != nil {
			return data, err
		}
		data.MyProjects = mine
	}

	return data, nil
}

// rerenderWithError redraws the document page with an inline form error.
func (h *Handler) rerenderWithError(ctx context.Context, w http.ResponseWriter, r *http.Request, role models.Role, profileID primitive.ObjectID, msg string) {
	data, err := h.buildListData(ctx, r, role, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documents: list failed", err, "A database error occurred.", "/dashboard")
		return
	}
	data.SetError(msg)
	templates.Render(w, r, "document_list", data)
}

// HandleUpload handles POST /documents/upload. Validation failures re-render
// the page with an inline error; nothing is recorded.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	role, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if err := r.ParseMultipartForm(h.UploadPolicy.MaxSize + 1<<20); err != nil {
		h.ErrLog.LogBadRequest(w, r, "documents: parse multipart failed", err, "Invalid upload.", "/documents")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	file, header, err := r.FormFile("document")
	if err != nil {
		h.rerenderWithError(ctx, w, r, role, profileID, "Please choose a file to upload.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := h.UploadPolicy.Validate(header.Filename, header.Size, contentType); err != nil {
		h.rerenderWithError(ctx, w, r, role, profileID, err.Error())
		return
	}

	title := normalize.Name(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}

	var projectID *primitive.ObjectID
	if raw := r.FormValue("project_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.SessionMgr.AddFlash(w, r, "error", "Unknown project.")
			http.Redirect(w, r, "/documents", http.StatusSeeOther)
			return
		}
		// Attachment is limited to the caller's own projects.
		p, err := h.Projects.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				h.SessionMgr.AddFlash(w, r, "error", "Unknown project.")
				http.Redirect(w, r, "/documents", http.StatusSeeOther)
				return
			}
			h.ErrLog.LogServerError(w, r, "documents: load project failed", err, "A database error occurred.", "/documents")
			return
		}
		if p.PostedBy != profileID {
			uierrors.RenderForbidden(w, r, "You can only attach documents to your own projects.", "/documents")
			return
		}
		projectID = &id
	}

	info, err := uploads.Save(ctx, h.Store, "documents", header.Filename, file, header.Size, contentType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documents: store upload failed", err, "Unable to store your document.", "/documents")
		return
	}

	doc := models.Document{
		OwnerID:   profileID,
		ProjectID: projectID,
		Title:     title,
		FilePath:  info.Path,
		FileName:  header.Filename,
		FileSize:  header.Size,
	}
	if _, err := h.Documents.Create(ctx, doc); err != nil {
		h.ErrLog.LogServerError(w, r, "documents: record upload failed", err, "Unable to store your document.", "/documents")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Document uploaded.")
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

// HandleDownload handles GET /documents/{id}/download. Local storage is
// served directly; anything else redirects to a short-lived signed URL.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, ok := h.requireOwned(ctx, w, r)
	if !ok {
		return
	}

	contentDisposition := fmt.Sprintf("attachment; filename=%q", doc.FileName)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if local, ok := h.Store.(*storage.Local); ok {
		fullPath, err := local.GetFullPath(doc.FilePath)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "documents: locate file failed", err, "Failed to locate the file.", "/documents")
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Store.PresignedURL(ctx, doc.FilePath, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documents: sign url failed", err, "Failed to generate a download link.", "/documents")
		return
	}
	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}

// HandleDelete handles POST /documents/{id}/delete. The storage object is
// removed on a best-effort basis after the record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, ok := h.requireOwned(ctx, w, r)
	if !ok {
		return
	}

	deleted, err := h.Documents.Delete(ctx, doc.ID, doc.OwnerID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documents: delete failed", err, "Unable to delete the document.", "/documents")
		return
	}
	if deleted == 0 {
		h.SessionMgr.AddFlash(w, r, "warning", "That document no longer exists.")
		http.Redirect(w, r, "/documents", http.StatusSeeOther)
		return
	}

	if err := h.Store.Delete(ctx, doc.FilePath); err != nil {
		h.Log.Warn("documents: remove stored file failed",
			zap.Error(err),
			zap.String("path", doc.FilePath))
	}

	h.SessionMgr.AddFlash(w, r, "success", "Document deleted.")
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

// requireOwned loads the document named in the URL and checks the caller
// owns it.
func (h *Handler) requireOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That document doesn't exist.", "/documents")
		return nil, false
	}

	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return nil, false
	}

	doc, err := h.Documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That document doesn't exist.", "/documents")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "documents: load failed", err, "A database error occurred.", "/documents")
		return nil, false
	}
	if doc.OwnerID != profileID {
		uierrors.RenderForbidden(w, r, "That document belongs to another user.", "/documents")
		return nil, false
	}
	return doc, true
}
