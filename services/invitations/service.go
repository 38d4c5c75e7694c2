package invitations

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/teris-io/shortid"

	"everafter/internal/database"
	"everafter/models"
)

var (
	ErrNotFound         = errors.New("invitation not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrSlugTaken        = errors.New("could not allocate a unique slug")
	ErrTemplateRequired = errors.New("template is required")
)

// slugAttempts bounds how many times slug generation retries on collision.
const slugAttempts = 5

// FileRemover deletes a stored upload by its public URL path. Removal of a
// file that does not exist is not an error.
type FileRemover interface {
	Remove(urlPath string) (bool, error)
}

// Detail bundles an invitation with its content row for API responses.
type Detail struct {
	models.Invitation
	Content models.InvitationContent `json:"content"`
}

// PublicView is the guest-facing projection of a published invitation. It
// carries the template and an optional personalized greeting but no owner or
// lifecycle metadata.
type PublicView struct {
	Slug     string                   `json:"slug"`
	Template *models.Template         `json:"template,omitempty"`
	Settings PublicSettings           `json:"settings"`
	Content  models.InvitationContent `json:"content"`
	GuestOf  string                   `json:"guestOf,omitempty"`
}

// PublicSettings mirrors the presentation fields exposed on the public page.
type PublicSettings struct {
	PrimaryColor     string `json:"primaryColor,omitempty"`
	AccentColor      string `json:"accentColor,omitempty"`
	FontFamily       string `json:"fontFamily,omitempty"`
	RSVPEnabled      bool   `json:"rsvpEnabled"`
	MessagesEnabled  bool   `json:"messagesEnabled"`
	CountdownEnabled bool   `json:"countdownEnabled"`
	GiftEnabled      bool   `json:"giftEnabled"`
}

// Service manages the invitation lifecycle: create, edit, publish, and delete.
type Service struct {
	invitations *database.InvitationRepository
	templates   *database.TemplateRepository
	pageViews   *database.PageViewRepository
	files       FileRemover
}

// NewService creates an invitations service.
func NewService(
	invitations *database.InvitationRepository,
	templates *database.TemplateRepository,
	pageViews *database.PageViewRepository,
	files FileRemover,
) *Service {
	return &Service{
		invitations: invitations,
		templates:   templates,
		pageViews:   pageViews,
		files:       files,
	}
}

// Create makes a new draft invitation for the user. The slug is generated and
// immutable; the expiry is fixed at creation time and never extended.
func (s *Service) Create(userID int64, templateID string, inv models.Invitation, content models.InvitationContent) (*Detail, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return nil, ErrTemplateRequired
	}
	tmpl, err := s.templates.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	slug, err := s.newSlug()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.UserID = userID
	inv.Slug = slug
	inv.TemplateID = templateID
	inv.Status = models.StatusDraft
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.ExpiresAt = now.AddDate(0, models.RetentionMonths, 0)

	if err := s.invitations.CreateInvitation(&inv, &content); err != nil {
		return nil, err
	}

	return &Detail{Invitation: inv, Content: content}, nil
}

// newSlug generates a short URL-safe identifier, retrying on the unlikely
// collision with an existing invitation.
func (s *Service) newSlug() (string, error) {
	for i := 0; i < slugAttempts; i++ {
		id, err := shortid.Generate()
		if err != nil {
			return "", fmt.Errorf("generate slug: %w", err)
		}
		taken, err := s.invitations.SlugExists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrSlugTaken
}

// Get returns an invitation with its content, scoped to the owning user.
func (s *Service) Get(userID, id int64) (*Detail, error) {
	inv, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	content, err := s.invitations.GetContent(id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = &models.InvitationContent{InvitationID: id}
	}
	return &Detail{Invitation: *inv, Content: *content}, nil
}

// List returns all invitations owned by the user, newest first.
func (s *Service) List(userID int64) ([]*models.Invitation, error) {
	return s.invitations.ListByUser(userID)
}

// Update overwrites the editable fields of an invitation. Slug, status, and
// expiry cannot be changed through updates.
func (s *Service) Update(userID, id int64, inv models.Invitation, content models.InvitationContent) (*Detail, error) {
	existing, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}

	if templateID := strings.TrimSpace(inv.TemplateID); templateID != "" && templateID != existing.TemplateID {
		tmpl, err := s.templates.GetTemplate(templateID)
		if err != nil {
			return nil, err
		}
		if tmpl == nil {
			return nil, ErrTemplateNotFound
		}
		existing.TemplateID = templateID
	}

	existing.PrimaryColor = inv.PrimaryColor
	existing.AccentColor = inv.AccentColor
	existing.FontFamily = inv.FontFamily
	existing.RSVPEnabled = inv.RSVPEnabled
	existing.MessagesEnabled = inv.MessagesEnabled
	existing.CountdownEnabled = inv.CountdownEnabled
	existing.GiftEnabled = inv.GiftEnabled

	if err := s.invitations.UpdateInvitation(existing, &content); err != nil {
		return nil, err
	}

	return &Detail{Invitation: *existing, Content: content}, nil
}

// Publish flips a draft to published. Publishing an already-published
// invitation is a no-op.
func (s *Service) Publish(userID, id int64) (*models.Invitation, error) {
	inv, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if inv.IsPublished() {
		return inv, nil
	}
	if err := s.invitations.SetStatus(id, models.StatusPublished); err != nil {
		return nil, err
	}
	inv.Status = models.StatusPublished
	return inv, nil
}

// Delete removes an invitation, its uploaded media files, and (via cascade)
// its content, guests, and page views. File removal failures are logged but do
// not block the row delete.
func (s *Service) Delete(userID, id int64) error {
	if _, err := s.owned(userID, id); err != nil {
		return err
	}
	return s.deleteWithFiles(id)
}

// AdminDelete removes any invitation regardless of owner.
func (s *Service) AdminDelete(id int64) error {
	inv, err := s.invitations.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrNotFound
	}
	return s.deleteWithFiles(id)
}

func (s *Service) deleteWithFiles(id int64) error {
	content, err := s.invitations.GetContent(id)
	if err != nil {
		return err
	}
	if content != nil && s.files != nil {
		for _, url := range content.MediaURLs() {
			if _, err := s.files.Remove(url); err != nil {
				log.Printf("[invitations] failed to remove file %s: %v", url, err)
			}
		}
	}

	deleted, err := s.invitations.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// GetPublicBySlug resolves a published invitation for the guest-facing page
// and records a page view. Draft invitations are indistinguishable from
// missing ones. The guest name, when given, is echoed back as a greeting
// whether or not a matching guest row exists.
func (s *Service) GetPublicBySlug(slug, guestName string) (*PublicView, error) {
	inv, err := s.invitations.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.IsPublished() {
		return nil, ErrNotFound
	}

	content, err := s.invitations.GetContent(inv.ID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = &models.InvitationContent{InvitationID: inv.ID}
	}

	tmpl, err := s.templates.GetTemplate(inv.TemplateID)
	if err != nil {
		return nil, err
	}

	if err := s.pageViews.RecordView(inv.ID); err != nil {
		log.Printf("[invitations] failed to record page view for %s: %v", slug, err)
	}

	return &PublicView{
		Slug:     inv.Slug,
		Template: tmpl,
		Settings: PublicSettings{
			PrimaryColor:     inv.PrimaryColor,
			AccentColor:      inv.AccentColor,
			FontFamily:       inv.FontFamily,
			RSVPEnabled:      inv.RSVPEnabled,
			MessagesEnabled:  inv.MessagesEnabled,
			CountdownEnabled: inv.CountdownEnabled,
			GiftEnabled:      inv.GiftEnabled,
		},
		Content: *content,
		GuestOf: strings.TrimSpace(guestName),
	}, nil
}

// ViewCount returns the number of recorded page views, scoped to the owner.
func (s *Service) ViewCount(userID, id int64) (int, error) {
	if _, err := s.owned(userID, id); err != nil {
		return 0, err
	}
	return s.pageViews.CountViews(id)
}

// Templates returns the available design templates.
func (s *Service) Templates() ([]*models.Template, error) {
	return s.templates.ListTemplates()
}

// owned fetches an invitation and verifies ownership. Invitations owned by
// someone else look identical to missing ones.
func (s *Service) owned(userID, id int64) (*models.Invitation, error) {
	inv, err := s.invitations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, ErrNotFound
	}
	return inv, nil
}
