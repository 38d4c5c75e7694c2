package cleanup

import (
	"log"
	"time"

	"everafter/internal/database"
	"everafter/models"
)

// FileRemover deletes a stored upload by its public URL path. A missing file
// reports (false, nil).
type FileRemover interface {
	Remove(urlPath string) (bool, error)
}

// Summary reports what one cleanup pass did.
type Summary struct {
	Invitations int // invitation rows deleted
	Files       int // media files deleted
	Errors      int // invitations skipped because of an error
}

// Service deletes invitations whose retention window has passed, together
// with their uploaded media. Content, guests, and page views go with the
// invitation row via cascade.
type Service struct {
	invitations *database.InvitationRepository
	files       FileRemover
}

// NewService creates a cleanup service.
func NewService(invitations *database.InvitationRepository, files FileRemover) *Service {
	return &Service{invitations: invitations, files: files}
}

// Run performs one cleanup pass over everything expired at the given time.
// Each invitation is handled independently: a failure on one is logged and
// counted, and the pass moves on to the next.
func (s *Service) Run(now time.Time) (Summary, error) {
	expired, err := s.invitations.ListExpired(now)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, inv := range expired {
		files, err := s.deleteOne(inv)
		summary.Files += files
		if err != nil {
			log.Printf("[cleanup] failed to delete invitation %d (%s): %v", inv.ID, inv.Slug, err)
			summary.Errors++
			continue
		}
		summary.Invitations++
	}
	return summary, nil
}

// deleteOne removes one invitation's media files and then its row. Missing
// files are not errors; file removal errors are logged but do not stop the
// row delete, since the retention promise is about the data being gone.
func (s *Service) deleteOne(inv *models.Invitation) (int, error) {
	removed := 0

	content, err := s.invitations.GetContent(inv.ID)
	if err != nil {
		return removed, err
	}
	if content != nil {
		for _, url := range content.MediaURLs() {
			ok, err := s.files.Remove(url)
			if err != nil {
				log.Printf("[cleanup] failed to remove file %s for invitation %d: %v", url, inv.ID, err)
				continue
			}
			if ok {
				removed++
			}
		}
	}

	if _, err := s.invitations.Delete(inv.ID); err != nil {
		return removed, err
	}
	return removed, nil
}
