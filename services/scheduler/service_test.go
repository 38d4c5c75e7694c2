package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"everafter/internal/database"
	"everafter/models"
	"everafter/services/cleanup"
)

type noopRemover struct{}

func (noopRemover) Remove(string) (bool, error) { return true, nil }

func setupTest(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cleanupSvc := cleanup.NewService(db.Invitations, noopRemover{})
	return NewService(cleanupSvc, time.Hour), db
}

func TestStartStop(t *testing.T) {
	svc, _ := setupTest(t)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if err := svc.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
	if err := svc.Stop(ctx); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestStart_RunsImmediatePass(t *testing.T) {
	svc, db := setupTest(t)

	user := &models.User{Email: "owner@example.com", PasswordHash: "hash"}
	if err := db.Users.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	now := time.Now().UTC()
	inv := &models.Invitation{
		UserID: user.ID, Slug: "stale", TemplateID: "classic-rose",
		Status:    models.StatusPublished,
		CreatedAt: now.AddDate(0, -4, 0), UpdatedAt: now,
		ExpiresAt: now.AddDate(0, -1, 0),
	}
	if err := db.Invitations.CreateInvitation(inv, &models.InvitationContent{}); err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, err := db.Invitations.GetByID(inv.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	got, err := db.Invitations.GetByID(inv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected the immediate pass to delete the expired invitation")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
}
