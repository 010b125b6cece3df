package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// PresetRepository stores per-user saved filter sets.
type PresetRepository struct {
	db *sqlx.DB
}

// NewPresetRepository constructs the repository.
func NewPresetRepository(db *sqlx.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// ListByUser returns the presets owned by a user, optionally for one entity
// type.
func (r *PresetRepository) ListByUser(ctx context.Context, userID int64, entityType string) ([]models.Preset, error) {
	stmt := `SELECT id, user_id, name, entity_type, filters, attribute_filters
        FROM filter_presets WHERE user_id = ?`
	args := []interface{}{userID}
	if entityType != "" {
		stmt += ` AND entity_type = ?`
		args = append(args, entityType)
	}
	stmt += ` ORDER BY name`

	var presets []models.Preset
	if err := r.db.SelectContext(ctx, &presets, stmt, args...); err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return presets, nil
}

// FindByID fetches one preset.
func (r *PresetRepository) FindByID(ctx context.Context, id int64) (*models.Preset, error) {
	var preset models.Preset
	if err := r.db.GetContext(ctx, &preset,
		`SELECT id, user_id, name, entity_type, filters, attribute_filters
         FROM filter_presets WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &preset, nil
}

// Create inserts a preset.
func (r *PresetRepository) Create(ctx context.Context, preset *models.Preset) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO filter_presets (user_id, name, entity_type, filters, attribute_filters)
         VALUES (:user_id, :name, :entity_type, :filters, :attribute_filters)`, preset)
	if err != nil {
		return fmt.Errorf("create preset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create preset id: %w", err)
	}
	preset.ID = id
	return nil
}

// Delete removes a preset owned by the given user. Ownership is enforced in
// the statement so a non-owner delete reports not found.
func (r *PresetRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM filter_presets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
