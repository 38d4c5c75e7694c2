package models

// Template is one entry in the static catalog of selectable visual themes.
// The catalog is seeded by migration and read-only at runtime.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
}
