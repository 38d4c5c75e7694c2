package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"everafter/internal/auth"
	"everafter/models"
	"everafter/services/invitations"
)

// InvitationsHandler handles the owner-facing invitation CRUD endpoints.
type InvitationsHandler struct {
	invitations *invitations.Service
}

// NewInvitationsHandler creates a new invitations handler.
func NewInvitationsHandler(invitationsSvc *invitations.Service) *InvitationsHandler {
	return &InvitationsHandler{invitations: invitationsSvc}
}

// InvitationRequest represents the create/update request body.
type InvitationRequest struct {
	TemplateID string `json:"templateId"`

	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
	FontFamily   string `json:"fontFamily"`

	RSVPEnabled      bool `json:"rsvpEnabled"`
	MessagesEnabled  bool `json:"messagesEnabled"`
	CountdownEnabled bool `json:"countdownEnabled"`
	GiftEnabled      bool `json:"giftEnabled"`

	Content models.InvitationContent `json:"content"`
}

func (req InvitationRequest) invitation() models.Invitation {
	return models.Invitation{
		TemplateID:       req.TemplateID,
		PrimaryColor:     req.PrimaryColor,
		AccentColor:      req.AccentColor,
		FontFamily:       req.FontFamily,
		RSVPEnabled:      req.RSVPEnabled,
		MessagesEnabled:  req.MessagesEnabled,
		CountdownEnabled: req.CountdownEnabled,
		GiftEnabled:      req.GiftEnabled,
	}
}

// List returns the authenticated user's invitations.
func (h *InvitationsHandler) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.invitations.List(auth.GetUserID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invitations")
		return
	}
	if invs == nil {
		invs = []*models.Invitation{}
	}
	writeJSON(w, http.StatusOK, invs)
}

// Create makes a new draft invitation.
func (h *InvitationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.invitations.Create(auth.GetUserID(r), req.TemplateID, req.invitation(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrTemplateRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, invitations.ErrTemplateNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create invitation")
		}
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

// Get returns one invitation with its content.
func (h *InvitationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.invitations.Get(auth.GetUserID(r), id)
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get invitation")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Update overwrites the editable fields of an invitation.
func (h *InvitationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.invitations.Update(auth.GetUserID(r), id, req.invitation(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, invitations.ErrTemplateNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update invitation")
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Publish flips a draft invitation to published.
func (h *InvitationsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	inv, err := h.invitations.Publish(auth.GetUserID(r), id)
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to publish invitation")
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// Delete removes an invitation and its uploaded media.
func (h *InvitationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.invitations.Delete(auth.GetUserID(r), id); err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete invitation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Views returns the page view count for an invitation.
func (h *InvitationsHandler) Views(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	count, err := h.invitations.ViewCount(auth.GetUserID(r), id)
	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to count views")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"views": count})
}

// Templates returns the available design templates.
func (h *InvitationsHandler) Templates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.invitations.Templates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []*models.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}
