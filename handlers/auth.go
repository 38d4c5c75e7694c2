package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"everafter/api"
	"everafter/internal/auth"
	"everafter/services/accounts"
	"everafter/services/sessions"
)

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	accounts *accounts.Service
	sessions *sessions.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountsSvc *accounts.Service, sessionsSvc *sessions.Service) *AuthHandler {
	return &AuthHandler{
		accounts: accountsSvc,
		sessions: sessionsSvc,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"isAdmin"`
}

// ChangePasswordRequest represents the password change request body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register creates a new user account and logs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, accounts.ErrEmailRequired),
			errors.Is(err, accounts.ErrPasswordRequired),
			errors.Is(err, accounts.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	session, err := h.sessions.Create(user.ID, user.IsAdmin, r.Header.Get("User-Agent"), api.ClientIP(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse(session.Token, session.ExpiresAt, user.ID, user.Email, user.Name, user.IsAdmin))
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session, err := h.sessions.Create(user.ID, user.IsAdmin, r.Header.Get("User-Agent"), api.ClientIP(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse(session.Token, session.ExpiresAt, user.ID, user.Email, user.Name, user.IsAdmin))
}

// Logout invalidates the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := api.ExtractBearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "no session token")
		return
	}

	if err := h.sessions.Revoke(token); err != nil {
		// Session not found is OK - might already be expired
		if !errors.Is(err, sessions.ErrSessionNotFound) {
			writeError(w, http.StatusInternalServerError, "failed to revoke session")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Get(auth.GetUserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword verifies the current password and replaces it. All other
// sessions for the user are revoked.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := auth.GetUserID(r)
	if err := h.accounts.UpdatePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, accounts.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	h.sessions.RevokeAllForUser(userID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func loginResponse(token string, expiresAt time.Time, userID int64, email, name string, isAdmin bool) LoginResponse {
	return LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		UserID:    userID,
		Email:     email,
		Name:      name,
		IsAdmin:   isAdmin,
	}
}
