package models

import (
	"encoding/json"
	"time"
)

// User represents a registered account that can own invitations.
// The superadmin user additionally has access to the admin API.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // bcrypt hash, never exposed in API responses
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MarshalJSON implements custom JSON marshaling to guarantee the password hash
// never leaks even if the struct tag is edited.
func (u User) MarshalJSON() ([]byte, error) {
	type UserAlias User // prevent recursion
	alias := UserAlias(u)
	alias.PasswordHash = ""
	return json.Marshal(alias)
}
