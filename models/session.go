package models

import "time"

// Session represents an authenticated session for a user.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	IsAdmin   bool      `json:"isAdmin"` // cached from the user for quick access
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

// IsExpired returns true if the session has expired.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
