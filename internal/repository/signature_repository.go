package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// SignatureRepository stores shared email signatures.
type SignatureRepository struct {
	db *sqlx.DB
}

// NewSignatureRepository constructs the repository.
func NewSignatureRepository(db *sqlx.DB) *SignatureRepository {
	return &SignatureRepository{db: db}
}

// List returns active signatures.
func (r *SignatureRepository) List(ctx context.Context) ([]models.Signature, error) {
	var signatures []models.Signature
	if err := r.db.SelectContext(ctx, &signatures,
		`SELECT id, name, html, is_default, active FROM email_signatures
         WHERE active = 1 ORDER BY is_default DESC, name`); err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	return signatures, nil
}

// FindByID fetches one active signature.
func (r *SignatureRepository) FindByID(ctx context.Context, id int64) (*models.Signature, error) {
	var signature models.Signature
	if err := r.db.GetContext(ctx, &signature,
		`SELECT id, name, html, is_default, active FROM email_signatures
         WHERE id = ? AND active = 1`, id); err != nil {
		return nil, err
	}
	return &signature, nil
}

// GetDefault fetches the current default signature, if any.
func (r *SignatureRepository) GetDefault(ctx context.Context) (*models.Signature, error) {
	var signature models.Signature
	if err := r.db.GetContext(ctx, &signature,
		`SELECT id, name, html, is_default, active FROM email_signatures
         WHERE is_default = 1 AND active = 1 LIMIT 1`); err != nil {
		return nil, err
	}
	return &signature, nil
}

// Create inserts a signature.
func (r *SignatureRepository) Create(ctx context.Context, signature *models.Signature) error {
	signature.Active = true
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO email_signatures (name, html, is_default, active)
         VALUES (:name, :html, :is_default, :active)`, signature)
	if err != nil {
		return fmt.Errorf("create signature: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create signature id: %w", err)
	}
	signature.ID = id
	return nil
}

// Update modifies a signature's name and content.
func (r *SignatureRepository) Update(ctx context.Context, signature *models.Signature) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE email_signatures SET name = :name, html = :html WHERE id = :id AND active = 1`, signature)
	if err != nil {
		return fmt.Errorf("update signature: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDefault makes one signature the default. The flag is cleared across the
// table and re-set inside a transaction so at most one default survives.
func (r *SignatureRepository) SetDefault(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set default signature: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE email_signatures SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("clear default signature: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE email_signatures SET is_default = 1 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return fmt.Errorf("set default signature: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// Delete retires a signature. Rows are kept for sent-mail traceability, only
// the active flag drops; a retired default loses the flag too.
func (r *SignatureRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_signatures SET active = 0, is_default = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return fmt.Errorf("delete signature: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
