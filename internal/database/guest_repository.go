package database

import (
	"database/sql"
	"fmt"
	"time"

	"everafter/models"
)

// GuestRepository handles persistence for the guests table.
type GuestRepository struct {
	db *sql.DB
}

// NewGuestRepository creates a new guest repository.
func NewGuestRepository(db *sql.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

const guestColumns = `id, invitation_id, name, phone, rsvp_status, attendance_count, message, created_at, updated_at`

func scanGuest(row interface{ Scan(...any) error }) (*models.Guest, error) {
	var g models.Guest
	err := row.Scan(&g.ID, &g.InvitationID, &g.Name, &g.Phone, &g.RSVPStatus,
		&g.AttendanceCount, &g.Message, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGuest inserts a new guest row and backfills its ID. Fails when a guest
// with the same name already exists on the invitation.
func (r *GuestRepository) CreateGuest(guest *models.Guest) error {
	now := time.Now().UTC()
	if guest.RSVPStatus == "" {
		guest.RSVPStatus = models.RSVPPending
	}
	result, err := r.db.Exec(
		`INSERT INTO guests (invitation_id, name, phone, rsvp_status, attendance_count, message, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		guest.InvitationID, guest.Name, guest.Phone, guest.RSVPStatus,
		guest.AttendanceCount, guest.Message, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert guest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	guest.ID = id
	guest.CreatedAt = now
	guest.UpdatedAt = now
	return nil
}

// UpsertRSVP inserts a guest keyed on (invitation_id, name), or updates the
// existing row's RSVP fields when the name is already present. The unique
// index makes resubmission with the same name an update rather than a
// duplicate row.
func (r *GuestRepository) UpsertRSVP(guest *models.Guest) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO guests (invitation_id, name, phone, rsvp_status, attendance_count, message, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (invitation_id, name) DO UPDATE SET
			rsvp_status = excluded.rsvp_status,
			attendance_count = excluded.attendance_count,
			message = excluded.message,
			updated_at = excluded.updated_at`,
		guest.InvitationID, guest.Name, guest.Phone, guest.RSVPStatus,
		guest.AttendanceCount, guest.Message, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}

	stored, err := r.GetByName(guest.InvitationID, guest.Name)
	if err != nil {
		return err
	}
	if stored != nil {
		*guest = *stored
	}
	return nil
}

// GetByName returns the guest with the exact name on an invitation, or nil.
func (r *GuestRepository) GetByName(invitationID int64, name string) (*models.Guest, error) {
	row := r.db.QueryRow(
		`SELECT `+guestColumns+` FROM guests WHERE invitation_id = ? AND name = ?`,
		invitationID, name,
	)
	guest, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return guest, nil
}

// ListByInvitation returns all guests on an invitation ordered by name.
func (r *GuestRepository) ListByInvitation(invitationID int64) ([]*models.Guest, error) {
	rows, err := r.db.Query(
		`SELECT `+guestColumns+` FROM guests WHERE invitation_id = ? ORDER BY name`,
		invitationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// ListWithMessages returns guests on an invitation that left a non-empty
// message, newest update first.
func (r *GuestRepository) ListWithMessages(invitationID int64) ([]*models.Guest, error) {
	rows, err := r.db.Query(
		`SELECT `+guestColumns+` FROM guests
		 WHERE invitation_id = ? AND message != ''
		 ORDER BY updated_at DESC`,
		invitationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guest messages: %w", err)
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// CountGuests returns the total number of guests across all invitations.
func (r *GuestRepository) CountGuests() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM guests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count guests: %w", err)
	}
	return count, nil
}
