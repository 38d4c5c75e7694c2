package database

import (
	"database/sql"
	"fmt"

	"everafter/models"
)

// TemplateRepository reads the static template catalog. The catalog is seeded
// by migration and never modified at runtime.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListTemplates returns the full catalog ordered by name.
func (r *TemplateRepository) ListTemplates() ([]*models.Template, error) {
	rows, err := r.db.Query(`SELECT id, name, description, preview_url FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.PreviewURL); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// GetTemplate returns the template with the given ID, or nil if not found.
func (r *TemplateRepository) GetTemplate(id string) (*models.Template, error) {
	var t models.Template
	err := r.db.QueryRow(
		`SELECT id, name, description, preview_url FROM templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.PreviewURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}
