package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/render"
	"github.com/contactportal/backend/internal/service"
	"github.com/contactportal/backend/pkg/auth"
)

// ContactPortalHandler serves the "my contacts" portal pages.
type ContactPortalHandler struct {
	contacts service.ContactPortalService
	sessions service.SessionStore
	renderer Renderer
}

// NewContactPortalHandler creates a ContactPortalHandler.
func NewContactPortalHandler(contacts service.ContactPortalService, sessions service.SessionStore, renderer Renderer) *ContactPortalHandler {
	return &ContactPortalHandler{contacts: contacts, sessions: sessions, renderer: renderer}
}

// MyContacts handles GET /my/contacts and GET /my/contacts/page/{page}.
func (h *ContactPortalHandler) MyContacts(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	page := 1
	if r.PathValue("page") != "" {
		n, ok := pathID(r, "page")
		if !ok {
			http.NotFound(w, r)
			return
		}
		page = int(n)
	}

	query := r.URL.Query()
	sortBy := service.DefaultContactSortBy
	if _, ok := query["sortby"]; ok {
		sortBy = query.Get("sortby")
	}

	values, err := h.contacts.ListContacts(r.Context(), user, service.ContactListParams{Page: page, SortBy: sortBy})
	if errors.Is(err, service.ErrInvalidSort) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("list contacts failed", "error", err, "user_id", user.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if token, ok := auth.SessionTokenFromContext(r.Context()); ok {
		history := service.ContactHistory(values.Contacts)
		if err := h.sessions.Set(r.Context(), token, user.ID, service.ContactHistorySessionKey, history); err != nil {
			slog.Error("store contact history failed", "error", err, "user_id", user.ID)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	renderHTML(w, h.renderer, render.PortalMyContacts, values)
}

// ContactPage handles GET /my/contacts/{contact_id}. Missing records and
// denied access redirect to the portal home.
func (h *ContactPortalHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(r, "contact_id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	req := service.ContactPageRequest{
		User:        CurrentUser(r.Context()),
		ContactID:   contactID,
		AccessToken: query.Get("access_token"),
		Message:     query.Get("message"),
	}
	req.SessionToken, _ = auth.SessionTokenFromContext(r.Context())

	values, err := h.contacts.ContactPage(r.Context(), req)
	var accessErr *access.Error
	if errors.Is(err, service.ErrMissing) || errors.As(err, &accessErr) {
		http.Redirect(w, r, "/my", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("contact page failed", "error", err, "contact_id", contactID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderHTML(w, h.renderer, render.ContactPortalTemplate, values)
}
