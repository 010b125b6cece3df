package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// HistoryRepository stores the append-only activity log per person.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByPerson returns a person's history, newest first.
func (r *HistoryRepository) ListByPerson(ctx context.Context, personID int64) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT id, person_id, action, detail, created_at FROM person_history
         WHERE person_id = ? ORDER BY created_at DESC, id DESC`, personID); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Add appends one history entry.
func (r *HistoryRepository) Add(ctx context.Context, personID int64, action, detail string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO person_history (person_id, action, detail, created_at) VALUES (?, ?, ?, ?)`,
		personID, action, detail, time.Now().UTC()); err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}
	return nil
}
