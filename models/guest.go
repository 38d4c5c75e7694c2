package models

import "time"

// RSVPStatus is a guest's attendance confirmation state.
type RSVPStatus string

const (
	RSVPPending      RSVPStatus = "pending"
	RSVPAttending    RSVPStatus = "attending"
	RSVPNotAttending RSVPStatus = "not_attending"
)

// ValidRSVPStatus reports whether s is one of the known statuses.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPPending, RSVPAttending, RSVPNotAttending:
		return true
	}
	return false
}

// Guest represents an invitee scoped to one invitation. Guest identity is the
// plain name string within the invitation; RSVP submissions are keyed on it.
type Guest struct {
	ID              int64      `json:"id"`
	InvitationID    int64      `json:"invitationId"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	RSVPStatus      RSVPStatus `json:"rsvpStatus"`
	AttendanceCount int        `json:"attendanceCount"`
	Message         string     `json:"message,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
