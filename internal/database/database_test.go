package database

import (
	"path/filepath"
	"testing"
	"time"

	"everafter/models"
)

// setupTestDB creates a migrated database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and returns it.
func createTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User", PasswordHash: "hash"}
	if err := db.Users.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// createTestInvitation inserts an invitation with content for the user.
func createTestInvitation(t *testing.T, db *DB, userID int64, slug string) *models.Invitation {
	t.Helper()
	now := time.Now().UTC()
	inv := &models.Invitation{
		UserID:     userID,
		Slug:       slug,
		TemplateID: "classic-rose",
		Status:     models.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.AddDate(0, models.RetentionMonths, 0),
	}
	content := &models.InvitationContent{BrideName: "Ana", GroomName: "Ben"}
	if err := db.Invitations.CreateInvitation(inv, content); err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}
	return inv
}

func TestNewDB_EmptyPath(t *testing.T) {
	if _, err := NewDB(Config{}); err == nil {
		t.Fatal("expected error for empty database path")
	}
}

func TestMigrate_SeedsTemplates(t *testing.T) {
	db := setupTestDB(t)

	templates, err := db.Templates.ListTemplates()
	if err != nil {
		t.Fatalf("failed to list templates: %v", err)
	}
	if len(templates) == 0 {
		t.Fatal("expected seeded templates")
	}

	tmpl, err := db.Templates.GetTemplate("classic-rose")
	if err != nil {
		t.Fatalf("failed to get template: %v", err)
	}
	if tmpl == nil {
		t.Fatal("expected classic-rose template to be seeded")
	}
}

func TestReset_RebuildsSchemaAndReseeds(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reset@example.com")
	createTestInvitation(t, db, user.ID, "reset-slug")

	if err := Reset(db.Connection()); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}

	count, err := db.Users.CountUsers()
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 users after reset, got %d", count)
	}

	templates, err := db.Templates.ListTemplates()
	if err != nil {
		t.Fatalf("failed to list templates: %v", err)
	}
	if len(templates) == 0 {
		t.Error("expected templates to be reseeded after reset")
	}
}
