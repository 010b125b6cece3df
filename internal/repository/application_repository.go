package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ApplicationRepository stores program interest declarations.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Exists reports whether a person already declared interest in a program.
func (r *ApplicationRepository) Exists(ctx context.Context, personID, programID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM applications WHERE person_id = ? AND program_id = ?`, personID, programID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check application: %w", err)
	}
	return true, nil
}

// Add records an interest declaration.
func (r *ApplicationRepository) Add(ctx context.Context, personID, programID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (person_id, program_id, applied_at) VALUES (?, ?, ?)`,
		personID, programID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add application: %w", err)
	}
	return nil
}

// Remove withdraws an interest declaration.
func (r *ApplicationRepository) Remove(ctx context.Context, personID, programID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM applications WHERE person_id = ? AND program_id = ?`, personID, programID)
	if err != nil {
		return fmt.Errorf("remove application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
