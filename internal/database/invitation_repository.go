package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"everafter/models"
)

// InvitationRepository handles persistence for the invitations and
// invitation_content tables. Content rows are always created and updated
// together with their invitation.
type InvitationRepository struct {
	db *sql.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, user_id, slug, template_id, status,
	primary_color, accent_color, font_family,
	rsvp_enabled, messages_enabled, countdown_enabled, gift_enabled,
	created_at, updated_at, expires_at`

func scanInvitation(row interface{ Scan(...any) error }) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.Slug, &inv.TemplateID, &inv.Status,
		&inv.PrimaryColor, &inv.AccentColor, &inv.FontFamily,
		&inv.RSVPEnabled, &inv.MessagesEnabled, &inv.CountdownEnabled, &inv.GiftEnabled,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvitation inserts an invitation and its content row in one
// transaction and backfills the invitation ID.
func (r *InvitationRepository) CreateInvitation(inv *models.Invitation, content *models.InvitationContent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO invitations (user_id, slug, template_id, status,
			primary_color, accent_color, font_family,
			rsvp_enabled, messages_enabled, countdown_enabled, gift_enabled,
			created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.UserID, inv.Slug, inv.TemplateID, inv.Status,
		inv.PrimaryColor, inv.AccentColor, inv.FontFamily,
		inv.RSVPEnabled, inv.MessagesEnabled, inv.CountdownEnabled, inv.GiftEnabled,
		inv.CreatedAt, inv.UpdatedAt, inv.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	inv.ID = id
	content.InvitationID = id

	if err := upsertContent(tx, content); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertContent(tx *sql.Tx, c *models.InvitationContent) error {
	ceremony, err := json.Marshal(c.Ceremony)
	if err != nil {
		return fmt.Errorf("marshal ceremony: %w", err)
	}
	reception, err := json.Marshal(c.Reception)
	if err != nil {
		return fmt.Errorf("marshal reception: %w", err)
	}
	gallery, err := json.Marshal(valueOrEmpty(c.GalleryURLs))
	if err != nil {
		return fmt.Errorf("marshal gallery: %w", err)
	}
	gifts, err := json.Marshal(valueOrEmptyGifts(c.GiftMethods))
	if err != nil {
		return fmt.Errorf("marshal gift methods: %w", err)
	}
	wishlist, err := json.Marshal(valueOrEmptyWishlist(c.Wishlist))
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO invitation_content (invitation_id,
			bride_name, groom_name, bride_parents, groom_parents,
			bride_photo_url, groom_photo_url, music_url,
			ceremony, reception, gallery_urls, gift_methods, wishlist,
			opening_text, closing_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (invitation_id) DO UPDATE SET
			bride_name = excluded.bride_name,
			groom_name = excluded.groom_name,
			bride_parents = excluded.bride_parents,
			groom_parents = excluded.groom_parents,
			bride_photo_url = excluded.bride_photo_url,
			groom_photo_url = excluded.groom_photo_url,
			music_url = excluded.music_url,
			ceremony = excluded.ceremony,
			reception = excluded.reception,
			gallery_urls = excluded.gallery_urls,
			gift_methods = excluded.gift_methods,
			wishlist = excluded.wishlist,
			opening_text = excluded.opening_text,
			closing_text = excluded.closing_text`,
		c.InvitationID,
		c.BrideName, c.GroomName, c.BrideParents, c.GroomParents,
		c.BridePhotoURL, c.GroomPhotoURL, c.MusicURL,
		string(ceremony), string(reception), string(gallery), string(gifts), string(wishlist),
		c.OpeningText, c.ClosingText,
	)
	if err != nil {
		return fmt.Errorf("upsert invitation content: %w", err)
	}
	return nil
}

func valueOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func valueOrEmptyGifts(s []models.GiftMethod) []models.GiftMethod {
	if s == nil {
		return []models.GiftMethod{}
	}
	return s
}

func valueOrEmptyWishlist(s []models.WishlistItem) []models.WishlistItem {
	if s == nil {
		return []models.WishlistItem{}
	}
	return s
}

// GetByID returns the invitation with the given ID, or nil if not found.
func (r *InvitationRepository) GetByID(id int64) (*models.Invitation, error) {
	row := r.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetBySlug returns the invitation with the given slug, or nil if not found.
func (r *InvitationRepository) GetBySlug(slug string) (*models.Invitation, error) {
	row := r.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE slug = ?`, slug)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation by slug: %w", err)
	}
	return inv, nil
}

// GetContent returns the content row for an invitation, or nil if not found.
func (r *InvitationRepository) GetContent(invitationID int64) (*models.InvitationContent, error) {
	var (
		c                                          models.InvitationContent
		ceremony, reception, gallery, gifts, items string
	)
	err := r.db.QueryRow(
		`SELECT invitation_id, bride_name, groom_name, bride_parents, groom_parents,
			bride_photo_url, groom_photo_url, music_url,
			ceremony, reception, gallery_urls, gift_methods, wishlist,
			opening_text, closing_text
		 FROM invitation_content WHERE invitation_id = ?`,
		invitationID,
	).Scan(
		&c.InvitationID, &c.BrideName, &c.GroomName, &c.BrideParents, &c.GroomParents,
		&c.BridePhotoURL, &c.GroomPhotoURL, &c.MusicURL,
		&ceremony, &reception, &gallery, &gifts, &items,
		&c.OpeningText, &c.ClosingText,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation content: %w", err)
	}

	if err := json.Unmarshal([]byte(ceremony), &c.Ceremony); err != nil {
		return nil, fmt.Errorf("unmarshal ceremony: %w", err)
	}
	if err := json.Unmarshal([]byte(reception), &c.Reception); err != nil {
		return nil, fmt.Errorf("unmarshal reception: %w", err)
	}
	if err := json.Unmarshal([]byte(gallery), &c.GalleryURLs); err != nil {
		return nil, fmt.Errorf("unmarshal gallery: %w", err)
	}
	if err := json.Unmarshal([]byte(gifts), &c.GiftMethods); err != nil {
		return nil, fmt.Errorf("unmarshal gift methods: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &c.Wishlist); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	return &c, nil
}

// ListByUser returns all invitations owned by a user, newest first.
func (r *InvitationRepository) ListByUser(userID int64) ([]*models.Invitation, error) {
	rows, err := r.db.Query(
		`SELECT `+invitationColumns+` FROM invitations WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()
	return collectInvitations(rows)
}

// ListAll returns every invitation, newest first. Admin use only.
func (r *InvitationRepository) ListAll() ([]*models.Invitation, error) {
	rows, err := r.db.Query(`SELECT ` + invitationColumns + ` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all invitations: %w", err)
	}
	defer rows.Close()
	return collectInvitations(rows)
}

// ListExpired returns invitations whose retention window passed before now.
func (r *InvitationRepository) ListExpired(now time.Time) ([]*models.Invitation, error) {
	rows, err := r.db.Query(
		`SELECT `+invitationColumns+` FROM invitations WHERE expires_at < ? ORDER BY expires_at`,
		now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list expired invitations: %w", err)
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func collectInvitations(rows *sql.Rows) ([]*models.Invitation, error) {
	var invitations []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// SlugExists reports whether a slug is already taken.
func (r *InvitationRepository) SlugExists(slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM invitations WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// UpdateInvitation overwrites the presentation fields, toggles, and content of
// an invitation wholesale. Slug, status, created_at, and expires_at are never
// touched by updates.
func (r *InvitationRepository) UpdateInvitation(inv *models.Invitation, content *models.InvitationContent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.Exec(
		`UPDATE invitations SET template_id = ?,
			primary_color = ?, accent_color = ?, font_family = ?,
			rsvp_enabled = ?, messages_enabled = ?, countdown_enabled = ?, gift_enabled = ?,
			updated_at = ?
		 WHERE id = ?`,
		inv.TemplateID,
		inv.PrimaryColor, inv.AccentColor, inv.FontFamily,
		inv.RSVPEnabled, inv.MessagesEnabled, inv.CountdownEnabled, inv.GiftEnabled,
		now, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	inv.UpdatedAt = now

	content.InvitationID = inv.ID
	if err := upsertContent(tx, content); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SetStatus updates the lifecycle status flag.
func (r *InvitationRepository) SetStatus(id int64, status models.InvitationStatus) error {
	_, err := r.db.Exec(
		`UPDATE invitations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set invitation status: %w", err)
	}
	return nil
}

// Delete removes an invitation row. Content, guests, and page views cascade.
func (r *InvitationRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountByStatus returns the number of invitations with the given status.
func (r *InvitationRepository) CountByStatus(status models.InvitationStatus) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM invitations WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invitations: %w", err)
	}
	return count, nil
}

// Count returns the total number of invitations.
func (r *InvitationRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM invitations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count invitations: %w", err)
	}
	return count, nil
}
