// internal/app/features/messages/handler.go
package messages

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	messagestore "github.com/sciencebridge/sciencebridge/internal/app/store/messages"
	profilestore "github.com/sciencebridge/sciencebridge/internal/app/store/profiles"
	userstore "github.com/sciencebridge/sciencebridge/internal/app/store/users"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/authz"
	"github.com/sciencebridge/sciencebridge/internal/app/system/htmlsanitize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/inputval"
	"github.com/sciencebridge/sciencebridge/internal/app/system/normalize"
	"github.com/sciencebridge/sciencebridge/internal/app/system/timeouts"
	"github.com/sciencebridge/sciencebridge/internal/app/system/viewdata"
	"github.com/sciencebridge/sciencebridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves direct messaging between profiles.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Messages   *messagestore.Store
	Profiles   *profilestore.Store
	Users      *userstore.Store
}

// NewHandler constructs a messages Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Messages:   messagestore.New(db),
		Profiles:   profilestore.New(db),
		Users:      userstore.New(db),
	}
}

// messageVM joins a message with the counterpart's handle.
type messageVM struct {
	Message models.Message
	Handle  string
}

type boxData struct {
	viewdata.BaseVM
	Messages []messageVM
	Sent     bool
}

// handlesFor resolves each profile ID in ids to its user handle.
func (h *Handler) handlesFor(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	profiles, err := h.Profiles.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var userIDs []primitive.ObjectID
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := h.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[primitive.ObjectID]string, len(profiles))
	for id, p := range profiles {
		if u, ok := users[p.UserID]; ok {
			out[id] = u.Handle
		}
	}
	return out, nil
}

// ServeInbox handles GET /messages.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	msgs, err := h.Messages.Inbox(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "messages: inbox failed", err, "A database error occurred.", "/dashboard")
		return
	}

	var senderIDs []primitive.ObjectID
	for _, m := range msgs {
		senderIDs = append(senderIDs, m.SenderID)
	}
	handles, err := h.handlesFor(ctx, senderIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "messages: resolve senders failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := boxData{BaseVM: viewdata.NewBaseVM(r, "Inbox", "/dashboard")}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	for _, m := range msgs {
		data.Messages = append(data.Messages, messageVM{Message: m, Handle: handles[m.SenderID]})
	}

	templates.Render(w, r, "message_inbox", data)
}

// ServeSent handles GET /messages/sent.
func (h *Handler) ServeSent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	msgs, err := h.Messages.Sent(ctx, profileID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "messages: sent listing failed", err, "A database error occurred.", "/messages")
		return
	}

	var recipientIDs []primitive.ObjectID
	for _, m := range msgs {
		recipientIDs = append(recipientIDs, m.RecipientID)
	}
	handles, err := h.handlesFor(ctx, recipientIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "messages: resolve recipients failed", err, "A database error occurred.", "/messages")
		return
	}

	data := boxData{
		BaseVM: viewdata.NewBaseVM(r, "Sent Messages", "/messages"),
		Sent:   true,
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	for _, m := range msgs {
		data.Messages = append(data.Messages, messageVM{Message: m, Handle: handles[m.RecipientID]})
	}

	templates.Render(w, r, "message_sent", data)
}

type composeInput struct {
	Recipient string `validate:"required,max=30" label:"Recipient"`
	Subject   string `validate:"max=200" label:"Subject"`
	Body      string `validate:"required,max=10000" label:"Message"`
}

type composeData struct {
	viewdata.BaseVM
	Recipient string
	Subject   string
	Body      string
}

// ServeCompose handles GET /messages/compose. An optional "to" query
// parameter prefills the recipient.
func (h *Handler) ServeCompose(w http.ResponseWriter, r *http.Request) {
	data := composeData{
		BaseVM:    viewdata.NewBaseVM(r, "New Message", "/messages"),
		Recipient: normalize.QueryParam(r.URL.Query().Get("to")),
	}
	data.Flashes = h.SessionMgr.PopFlashes(w, r)
	templates.Render(w, r, "message_compose", data)
}

// HandleCompose handles POST /messages/compose. The recipient is addressed
// by handle; the body is sanitized before storage.
func (h *Handler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, senderID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "messages: parse form failed", err, "Invalid form submission.", "/messages/compose")
		return
	}

	in := composeInput{
		Recipient: normalize.Handle(r.FormValue("recipient")),
		Subject:   normalize.Name(r.FormValue("subject")),
		Body:      htmlsanitize.Sanitize(r.FormValue("body")),
	}

	data := composeData{
		BaseVM:    viewdata.NewBaseVM(r, "New Message", "/messages"),
		Recipient: in.Recipient,
		Subject:   in.Subject,
		Body:      in.Body,
	}

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.First())
		templates.Render(w, r, "message_compose", data)
		return
	}

	u, err := h.Users.GetByHandle(ctx, in.Recipient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			data.SetError("No user with that username exists.")
			templates.Render(w, r, "message_compose", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "messages: look up recipient failed", err, "A database error occurred.", "/messages")
		return
	}
	recipient, err := h.Profiles.GetByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			data.SetError("No user with that username exists.")
			templates.Render(w, r, "message_compose", data)
			return
		}
		h.ErrLog.LogServerError(w, r, "messages: look up recipient profile failed", err, "A database error occurred.", "/messages")
		return
	}

	if recipient.ID == senderID {
		data.SetError("You can't send a message to yourself.")
		templates.Render(w, r, "message_compose", data)
		return
	}

	if _, err := h.Messages.Send(ctx, senderID, recipient.ID, in.Subject, in.Body); err != nil {
		h.ErrLog.LogServerError(w, r, "messages: send failed", err, "Unable to send the message.", "/messages")
		return
	}

	h.SessionMgr.AddFlash(w, r, "success", "Message sent.")
	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

// HandleMarkRead handles POST /messages/{id}/read. Only the recipient may
// mark a message read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, profileID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That message doesn't exist.", "/messages")
		return
	}

	if err := h.Messages.MarkRead(ctx, id, profileID); err != nil {
		if errors.Is(err, messagestore.ErrNotRecipient) {
			h.SessionMgr.AddFlash(w, r, "warning", "That message isn't in your inbox.")
			http.Redirect(w, r, "/messages", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "messages: mark read failed", err, "A database error occurred.", "/messages")
		return
	}

	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}
