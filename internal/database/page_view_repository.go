package database

import (
	"database/sql"
	"fmt"
	"time"
)

// PageViewRepository handles the append-only page view log. Rows carry no
// per-viewer identity and are used only for aggregate counters.
type PageViewRepository struct {
	db *sql.DB
}

// NewPageViewRepository creates a new page view repository.
func NewPageViewRepository(db *sql.DB) *PageViewRepository {
	return &PageViewRepository{db: db}
}

// RecordView appends one view row for an invitation.
func (r *PageViewRepository) RecordView(invitationID int64) error {
	_, err := r.db.Exec(
		`INSERT INTO page_views (invitation_id, viewed_at) VALUES (?, ?)`,
		invitationID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record page view: %w", err)
	}
	return nil
}

// CountViews returns the number of recorded views for an invitation.
func (r *PageViewRepository) CountViews(invitationID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM page_views WHERE invitation_id = ?`, invitationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count page views: %w", err)
	}
	return count, nil
}

// TotalViews returns the number of recorded views across all invitations.
func (r *PageViewRepository) TotalViews() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM page_views`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count total page views: %w", err)
	}
	return count, nil
}
