package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"everafter/internal/auth"
	"everafter/models"
	"everafter/services/guests"
)

// GuestsHandler handles the owner-facing guest list endpoints.
type GuestsHandler struct {
	guests *guests.Service
}

// NewGuestsHandler creates a new guests handler.
func NewGuestsHandler(guestsSvc *guests.Service) *GuestsHandler {
	return &GuestsHandler{guests: guestsSvc}
}

// AddGuestRequest represents the add-guest request body.
type AddGuestRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// BulkAddRequest represents the bulk import request body.
type BulkAddRequest struct {
	Guests []guests.BulkEntry `json:"guests"`
}

// List returns all guests on an invitation.
func (h *GuestsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := h.guests.List(auth.GetUserID(r), id)
	if err != nil {
		if errors.Is(err, guests.ErrInvitationNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list guests")
		return
	}
	if list == nil {
		list = []*models.Guest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Add creates one guest on an invitation.
func (h *GuestsHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AddGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	guest, err := h.guests.Add(auth.GetUserID(r), id, req.Name, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, guests.ErrInvitationNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, guests.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, guests.ErrDuplicateGuest):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to add guest")
		}
		return
	}

	writeJSON(w, http.StatusCreated, guest)
}

// BulkAdd imports multiple guests at once, skipping empty and duplicate names.
func (h *GuestsHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req BulkAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := h.guests.BulkAdd(auth.GetUserID(r), id, req.Guests)
	if err != nil {
		if errors.Is(err, guests.ErrInvitationNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to import guests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

// Export streams the guest list as a CSV download.
func (h *GuestsHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, err := h.guests.ExportCSV(auth.GetUserID(r), id)
	if err != nil {
		if errors.Is(err, guests.ErrInvitationNotFound) {
			writeError(w, http.StatusNotFound, "invitation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to export guests")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=guests-%d.csv", id))
	w.Write(data)
}
