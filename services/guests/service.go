package guests

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"everafter/internal/database"
	"everafter/models"
	"everafter/utils"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrNameRequired       = errors.New("guest name is required")
	ErrInvalidRSVPStatus  = errors.New("invalid rsvp status")
	ErrRSVPDisabled       = errors.New("rsvp is not enabled for this invitation")
	ErrMessagesDisabled   = errors.New("messages are not enabled for this invitation")
	ErrDuplicateGuest     = errors.New("a guest with this name already exists")
)

// Service manages the guest list and public RSVP submissions.
type Service struct {
	guests      *database.GuestRepository
	invitations *database.InvitationRepository
	phoneRegion string
}

// NewService creates a guests service. phoneRegion is the default region for
// parsing phone numbers without a country code.
func NewService(guests *database.GuestRepository, invitations *database.InvitationRepository, phoneRegion string) *Service {
	return &Service{guests: guests, invitations: invitations, phoneRegion: phoneRegion}
}

// Add creates one guest on the owner's invitation. The phone number is
// normalized to E.164 when it parses; otherwise it is stored as given.
func (s *Service) Add(userID, invitationID int64, name, phone string) (*models.Guest, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.guests.GetByName(invitationID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateGuest
	}

	guest := &models.Guest{
		InvitationID: invitationID,
		Name:         name,
		Phone:        s.normalizePhone(phone),
		RSVPStatus:   models.RSVPPending,
	}
	if err := s.guests.CreateGuest(guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// BulkEntry is one row of a bulk guest import.
type BulkEntry struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// BulkAdd imports multiple guests at once. Entries with empty names are
// dropped silently, as are names already on the list. Returns the number of
// guests actually created.
func (s *Service) BulkAdd(userID, invitationID int64, entries []BulkEntry) (int, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		existing, err := s.guests.GetByName(invitationID, name)
		if err != nil {
			return added, err
		}
		if existing != nil {
			continue
		}
		guest := &models.Guest{
			InvitationID: invitationID,
			Name:         name,
			Phone:        s.normalizePhone(entry.Phone),
			RSVPStatus:   models.RSVPPending,
		}
		if err := s.guests.CreateGuest(guest); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// List returns all guests on the owner's invitation ordered by name.
func (s *Service) List(userID, invitationID int64) ([]*models.Guest, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.guests.ListByInvitation(invitationID)
}

// ExportCSV renders the guest list as CSV. The output starts with a UTF-8 BOM
// so spreadsheet applications detect the encoding.
func (s *Service) ExportCSV(userID, invitationID int64) ([]byte, error) {
	guests, err := s.List(userID, invitationID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "Phone", "RSVP Status", "Attendance Count", "Message"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, g := range guests {
		record := []string{
			g.Name,
			g.Phone,
			string(g.RSVPStatus),
			strconv.Itoa(g.AttendanceCount),
			g.Message,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RSVP is a public RSVP submission on a published invitation.
type RSVP struct {
	Name            string `json:"name"`
	Phone           string `json:"phone,omitempty"`
	Status          string `json:"status"`
	AttendanceCount int    `json:"attendanceCount"`
	Message         string `json:"message,omitempty"`
}

// SubmitRSVP records a guest's response on a published invitation. The guest
// is keyed by name: a resubmission with the same name updates the earlier
// response instead of adding a second row.
func (s *Service) SubmitRSVP(slug string, rsvp RSVP) (*models.Guest, error) {
	inv, err := s.invitations.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.IsPublished() {
		return nil, ErrInvitationNotFound
	}
	if !inv.RSVPEnabled {
		return nil, ErrRSVPDisabled
	}

	name := strings.TrimSpace(rsvp.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	status := models.RSVPStatus(strings.TrimSpace(rsvp.Status))
	if !models.ValidRSVPStatus(status) {
		return nil, ErrInvalidRSVPStatus
	}

	count := rsvp.AttendanceCount
	if status != models.RSVPAttending {
		count = 0
	} else if count < 1 {
		count = 1
	}

	guest := &models.Guest{
		InvitationID:    inv.ID,
		Name:            name,
		Phone:           s.normalizePhone(rsvp.Phone),
		RSVPStatus:      status,
		AttendanceCount: count,
		Message:         strings.TrimSpace(rsvp.Message),
	}
	if err := s.guests.UpsertRSVP(guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// Messages returns guests who left a message on a published invitation,
// newest first. Requires the messages section to be enabled.
func (s *Service) Messages(slug string) ([]*models.Guest, error) {
	inv, err := s.invitations.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.IsPublished() {
		return nil, ErrInvitationNotFound
	}
	if !inv.MessagesEnabled {
		return nil, ErrMessagesDisabled
	}
	return s.guests.ListWithMessages(inv.ID)
}

// normalizePhone formats a phone number to E.164, falling back to the trimmed
// raw input when it does not parse. A guest list is still useful with an
// imperfect number.
func (s *Service) normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	normalized, err := utils.NormalizePhone(phone, s.phoneRegion)
	if err != nil {
		return phone
	}
	return normalized
}

// owned fetches an invitation and verifies ownership.
func (s *Service) owned(userID, invitationID int64) (*models.Invitation, error) {
	inv, err := s.invitations.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, ErrInvitationNotFound
	}
	return inv, nil
}
