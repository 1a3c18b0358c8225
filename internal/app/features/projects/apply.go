// internal/app/features/projects/apply.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	participantstore "github.com/sciencebridge/sciencebridge/internal/app/store/participants"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
The application workflow reports state conflicts as advisories, not
failures: a duplicate application, a closed project, or a missing
application all flash a message and redirect back to the project. The
participant store's unique index is what actually decides "already
applied"; the handler never trusts a read-then-write check for that.
*/

// HandleApply handles POST /projects/{id}/apply.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	dest := "/projects/" + id.Hex()

	role, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if !role.CanApplyToProjects() {
		h.SessionMgr.AddFlash(w, r, "error", "Only students and researchers can apply to projects.")
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That project doesn't exist.", "/projects")
			return
		}
		h.ErrLog.LogServerError(w, r, "apply: load project failed", err, "A database error occurred.", "/projects")
		return
	}

	if p.Status != models.StatusOpen {
		h.SessionMgr.AddFlash(w, r, "error", "This project is not open for applications.")
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	if _, err := h.Participants.Apply(ctx, id, profileID); err != nil {
		if errors.Is(err, participantstore.ErrAlreadyApplied) {
			h.SessionMgr.AddFlash(w, r, "warning", "You have already applied to this project.")
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "apply: insert failed", err, "Unable to submit your application.", dest)
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Application submitted successfully.")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// HandleWithdraw handles POST /projects/{id}/withdraw. Withdrawal deletes
// the row outright, accepted or not.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	dest := "/projects/" + id.Hex()

	_, _, profileID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Participants.Withdraw(ctx, id, profileID); err != nil {
		if errors.Is(err, participantstore.ErrNoApplication) {
			h.SessionMgr.AddFlash(w, r, "warning", "You have no application for this project.")
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "withdraw: delete failed", err, "Unable to withdraw your application.", dest)
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Your application has been withdrawn.")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
