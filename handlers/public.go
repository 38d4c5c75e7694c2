package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"everafter/models"
	"everafter/services/guests"
	"everafter/services/invitations"
)

// PublicHandler handles the unauthenticated guest-facing endpoints. Everything
// here is addressed by slug and only resolves published invitations.
type PublicHandler struct {
	invitations *invitations.Service
	guests      *guests.Service
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(invitationsSvc *invitations.Service, guestsSvc *guests.Service) *PublicHandler {
	return &PublicHandler{
		invitations: invitationsSvc,
		guests:      guestsSvc,
	}
}

// Get returns the public view of a published invitation and records a page
// view. The optional ?to= query personalizes the greeting.
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	view, err := h.invitations.GetPublicBySlug(slug, r.URL.Query().Get("to"))
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load invitation")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// RSVP records a guest response on a published invitation.
func (h *PublicHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req guests.RSVP
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := h.guests.SubmitRSVP(slug, req)
	if err != nil {
		switch {
		case errors.Is(err, guests.ErrInvitationNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, guests.ErrRSVPDisabled):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, guests.ErrNameRequired),
			errors.Is(err, guests.ErrInvalidRSVPStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record rsvp")
		}
		return
	}

	writeJSON(w, http.StatusOK, guest)
}

// Messages returns the guest messages left on a published invitation.
func (h *PublicHandler) Messages(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	list, err := h.guests.Messages(slug)
	if err != nil {
		switch {
		case errors.Is(err, guests.ErrInvitationNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, guests.ErrMessagesDisabled):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to load messages")
		}
		return
	}
	if list == nil {
		list = []*models.Guest{}
	}

	writeJSON(w, http.StatusOK, list)
}
