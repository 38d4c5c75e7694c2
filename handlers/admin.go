package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"everafter/api"
	"everafter/internal/database"
	"everafter/models"
	"everafter/services/accounts"
	"everafter/services/invitations"
	"everafter/services/sessions"
)

// AdminHandler handles the superadmin endpoints: platform stats and the
// ability to inspect or remove any user or invitation.
type AdminHandler struct {
	db          *database.DB
	accounts    *accounts.Service
	sessions    *sessions.Service
	invitations *invitations.Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *database.DB, accountsSvc *accounts.Service, sessionsSvc *sessions.Service, invitationsSvc *invitations.Service) *AdminHandler {
	return &AdminHandler{
		db:          db,
		accounts:    accountsSvc,
		sessions:    sessionsSvc,
		invitations: invitationsSvc,
	}
}

// StatsResponse represents the platform stats response.
type StatsResponse struct {
	Users          int `json:"users"`
	Invitations    int `json:"invitations"`
	Published      int `json:"published"`
	Drafts         int `json:"drafts"`
	Guests         int `json:"guests"`
	PageViews      int `json:"pageViews"`
	ActiveSessions int `json:"activeSessions"`
}

// Login authenticates the superadmin. Regular users are rejected even with
// valid credentials.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil || !user.IsAdmin {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session, err := h.sessions.Create(user.ID, true, r.Header.Get("User-Agent"), api.ClientIP(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse(session.Token, session.ExpiresAt, user.ID, user.Email, user.Name, true))
}

// Stats returns platform-wide counters.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.Users.CountUsers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	total, err := h.db.Invitations.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	published, err := h.db.Invitations.CountByStatus(models.StatusPublished)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	guestCount, err := h.db.Guests.CountGuests()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	views, err := h.db.PageViews.TotalViews()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Users:          users,
		Invitations:    total,
		Published:      published,
		Drafts:         total - published,
		Guests:         guestCount,
		PageViews:      views,
		ActiveSessions: h.sessions.Count(),
	})
}

// Users lists every registered user.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes a user and everything they own. Their sessions are
// revoked immediately.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(id); err != nil {
		switch {
		case errors.Is(err, accounts.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, accounts.ErrCannotDeleteAdmin):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	h.sessions.RevokeAllForUser(id)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Invitations lists every invitation on the platform.
func (h *AdminHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	invs, err := h.db.Invitations.ListAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invitations")
		return
	}
	if invs == nil {
		invs = []*models.Invitation{}
	}
	writeJSON(w, http.StatusOK, invs)
}

// DeleteInvitation removes any invitation regardless of owner, including its
// uploaded media.
func (h *AdminHandler) DeleteInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.invitations.AdminDelete(id); err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete invitation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
