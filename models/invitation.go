package models

import "time"

// InvitationStatus is the two-state lifecycle flag controlling public visibility.
type InvitationStatus string

const (
	StatusDraft     InvitationStatus = "draft"
	StatusPublished InvitationStatus = "published"
)

// RetentionMonths is the fixed retention window after which an invitation and
// its media are deleted. ExpiresAt is always CreatedAt plus this many months
// and no code path extends it.
const RetentionMonths = 3

// Invitation is the central entity: a slug-addressable wedding page owned by
// exactly one user.
type Invitation struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	Slug       string           `json:"slug"`
	TemplateID string           `json:"templateId"`
	Status     InvitationStatus `json:"status"`

	PrimaryColor string `json:"primaryColor,omitempty"`
	AccentColor  string `json:"accentColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty"`

	RSVPEnabled      bool `json:"rsvpEnabled"`
	MessagesEnabled  bool `json:"messagesEnabled"`
	CountdownEnabled bool `json:"countdownEnabled"`
	GiftEnabled      bool `json:"giftEnabled"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsPublished reports whether the invitation is publicly resolvable.
func (i Invitation) IsPublished() bool {
	return i.Status == StatusPublished
}

// IsExpired reports whether the retention window has passed at the given time.
func (i Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// EventDetail holds one venue/time pair. An invitation has up to two events
// (typically ceremony and reception).
type EventDetail struct {
	Name    string `json:"name,omitempty"`
	Venue   string `json:"venue,omitempty"`
	Address string `json:"address,omitempty"`
	Date    string `json:"date,omitempty"` // YYYY-MM-DD
	Time    string `json:"time,omitempty"` // HH:MM
	MapsURL string `json:"mapsUrl,omitempty"`
}

// GiftMethod is one payment option shown in the gift section.
type GiftMethod struct {
	Bank          string `json:"bank,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// WishlistItem is one entry in the couple's wishlist.
type WishlistItem struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// InvitationContent is the 1:1 extension of Invitation holding the large
// optional fields. It is deleted together with its invitation.
type InvitationContent struct {
	InvitationID int64 `json:"-"`

	BrideName    string `json:"brideName,omitempty"`
	GroomName    string `json:"groomName,omitempty"`
	BrideParents string `json:"brideParents,omitempty"`
	GroomParents string `json:"groomParents,omitempty"`

	BridePhotoURL string `json:"bridePhotoUrl,omitempty"`
	GroomPhotoURL string `json:"groomPhotoUrl,omitempty"`
	MusicURL      string `json:"musicUrl,omitempty"`

	Ceremony  EventDetail `json:"ceremony,omitempty"`
	Reception EventDetail `json:"reception,omitempty"`

	GalleryURLs []string       `json:"galleryUrls,omitempty"`
	GiftMethods []GiftMethod   `json:"giftMethods,omitempty"`
	Wishlist    []WishlistItem `json:"wishlist,omitempty"`

	OpeningText string `json:"openingText,omitempty"`
	ClosingText string `json:"closingText,omitempty"`
}

// MediaURLs returns every uploaded file path referenced by the content
// (couple photos, music, gallery images). Empty entries are skipped.
func (c InvitationContent) MediaURLs() []string {
	urls := make([]string, 0, len(c.GalleryURLs)+3)
	for _, u := range []string{c.BridePhotoURL, c.GroomPhotoURL, c.MusicURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	for _, u := range c.GalleryURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
