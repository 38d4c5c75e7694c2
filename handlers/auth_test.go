package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"everafter/api"
	"everafter/internal/database"
	"everafter/services/accounts"
	"everafter/services/sessions"
)

func setupAuthRouter(t *testing.T) *mux.Router {
	t.Helper()
	dir := t.TempDir()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(dir, "test.db")})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessionsSvc, err := sessions.NewService(dir, time.Hour)
	if err != nil {
		t.Fatalf("failed to create sessions service: %v", err)
	}
	accountsSvc := accounts.NewService(db.Users)
	handler := NewAuthHandler(accountsSvc, sessionsSvc)

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)

	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(api.AuthMiddleware(sessionsSvc))
	authed.HandleFunc("/auth/me", handler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)

	return router
}

func TestAuthFlow_RegisterLoginMeLogout(t *testing.T) {
	router := setupAuthRouter(t)

	// Register
	body := `{"email":"ana@example.com","password":"supersecret","name":"Ana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Login
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"supersecret"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected a session token")
	}

	// Me
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "supersecret") || strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("expected password material to stay out of responses")
	}

	// Logout, then the token stops working
	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupAuthRouter(t)

	body := `{"email":"ana@example.com","password":"supersecret","name":"Ana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	router := setupAuthRouter(t)

	body := `{"email":"ana@example.com","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", rec.Code)
	}
}
