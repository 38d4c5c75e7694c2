package invitations

import (
	"errors"
	"path/filepath"
	"testing"

	"everafter/internal/database"
	"everafter/models"
)

// fakeRemover records removed file URLs.
type fakeRemover struct {
	removed []string
	fail    bool
}

func (f *fakeRemover) Remove(urlPath string) (bool, error) {
	if f.fail {
		return false, errors.New("disk on fire")
	}
	f.removed = append(f.removed, urlPath)
	return true, nil
}

func setupTestService(t *testing.T) (*Service, *database.DB, *fakeRemover) {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	remover := &fakeRemover{}
	svc := NewService(db.Invitations, db.Templates, db.PageViews, remover)
	return svc, db, remover
}

func createTestUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Owner", PasswordHash: "hash"}
	if err := db.Users.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestCreate_SetsDraftSlugAndExpiry(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{BrideName: "Ana"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if detail.Status != models.StatusDraft {
		t.Errorf("expected draft status, got %q", detail.Status)
	}
	if detail.Slug == "" {
		t.Error("expected a generated slug")
	}
	want := detail.CreatedAt.AddDate(0, models.RetentionMonths, 0)
	if !detail.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, detail.ExpiresAt)
	}
}

func TestCreate_UnknownTemplate(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	if _, err := svc.Create(user.ID, "no-such-template", models.Invitation{}, models.InvitationContent{}); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := svc.Create(user.ID, "", models.Invitation{}, models.InvitationContent{}); !errors.Is(err, ErrTemplateRequired) {
		t.Errorf("expected ErrTemplateRequired, got %v", err)
	}
}

func TestGet_ScopedToOwner(t *testing.T) {
	svc, db, _ := setupTestService(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	detail, err := svc.Create(owner.ID, "classic-rose", models.Invitation{}, models.InvitationContent{})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if _, err := svc.Get(other.ID, detail.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner, got %v", err)
	}
	if _, err := svc.Get(owner.ID, detail.ID); err != nil {
		t.Errorf("expected owner to see invitation, got %v", err)
	}
}

func TestUpdate_PreservesSlugStatusAndExpiry(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	updated, err := svc.Update(user.ID, detail.ID,
		models.Invitation{PrimaryColor: "#112233", RSVPEnabled: true},
		models.InvitationContent{BrideName: "Ana"})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	if updated.Slug != detail.Slug {
		t.Errorf("expected slug %q unchanged, got %q", detail.Slug, updated.Slug)
	}
	if updated.Status != models.StatusDraft {
		t.Errorf("expected status unchanged, got %q", updated.Status)
	}
	if !updated.ExpiresAt.Equal(detail.ExpiresAt) {
		t.Errorf("expected expiry unchanged, got %v", updated.ExpiresAt)
	}
	if updated.PrimaryColor != "#112233" {
		t.Errorf("expected updated color, got %q", updated.PrimaryColor)
	}
}

func TestPublish_Idempotent(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	first, err := svc.Publish(user.ID, detail.ID)
	if err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	if first.Status != models.StatusPublished {
		t.Errorf("expected published, got %q", first.Status)
	}

	second, err := svc.Publish(user.ID, detail.ID)
	if err != nil {
		t.Fatalf("expected second publish to succeed, got %v", err)
	}
	if second.Status != models.StatusPublished {
		t.Errorf("expected published, got %q", second.Status)
	}
}

func TestGetPublicBySlug_DraftLooksLikeMissing(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if _, err := svc.GetPublicBySlug(detail.Slug, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft, got %v", err)
	}
	if _, err := svc.GetPublicBySlug("no-such-slug", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown slug, got %v", err)
	}
}

func TestGetPublicBySlug_RecordsViewsAndGreeting(t *testing.T) {
	svc, db, _ := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{BrideName: "Ana"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if _, err := svc.Publish(user.ID, detail.ID); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	view, err := svc.GetPublicBySlug(detail.Slug, "  Uncle Bob ")
	if err != nil {
		t.Fatalf("failed to get public view: %v", err)
	}
	if view.GuestOf != "Uncle Bob" {
		t.Errorf("expected trimmed greeting, got %q", view.GuestOf)
	}
	if view.Content.BrideName != "Ana" {
		t.Errorf("expected content in public view, got %q", view.Content.BrideName)
	}

	if _, err := svc.GetPublicBySlug(detail.Slug, ""); err != nil {
		t.Fatalf("failed to get public view: %v", err)
	}

	count, err := svc.ViewCount(user.ID, detail.ID)
	if err != nil {
		t.Fatalf("failed to count views: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 recorded views, got %d", count)
	}
}

func TestDelete_SweepsMediaFiles(t *testing.T) {
	svc, db, remover := setupTestService(t)
	user := createTestUser(t, db, "owner@example.com")

	content := models.InvitationContent{
		BridePhotoURL: "/uploads/bride.jpg",
		GalleryURLs:   []string{"/uploads/g1.jpg", "/uploads/g2.jpg"},
	}
	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, content)
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if err := svc.Delete(user.ID, detail.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	if len(remover.removed) != 3 {
		t.Errorf("expected 3 files removed, got %d: %v", len(remover.removed), remover.removed)
	}
	if _, err := svc.Get(user.ID, detail.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected invitation gone, got %v", err)
	}
}

func TestDelete_FileErrorsDoNotBlockRowDelete(t *testing.T) {
	svc, db, remover := setupTestService(t)
	remover.fail = true
	user := createTestUser(t, db, "owner@example.com")

	detail, err := svc.Create(user.ID, "classic-rose", models.Invitation{}, models.InvitationContent{MusicURL: "/uploads/song.mp3"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	if err := svc.Delete(user.ID, detail.ID); err != nil {
		t.Fatalf("expected delete to succeed despite file errors, got %v", err)
	}
}
