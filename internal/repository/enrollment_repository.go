package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// EnrollmentRepository handles program enrollments, including the bulk flow
// with its promotion side effects.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByProgram returns the persons enrolled in a program.
func (r *EnrollmentRepository) ListByProgram(ctx context.Context, programID int64) ([]models.Person, error) {
	const stmt = `SELECT u.id, u.full_name, u.email, u.phone, u.status, u.marketing_opt_in
        FROM enrollments e JOIN persons u ON u.id = e.person_id
        WHERE e.program_id = ? ORDER BY u.full_name`
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, stmt, programID); err != nil {
		return nil, fmt.Errorf("list program enrollments: %w", err)
	}
	return persons, nil
}

// BulkEnroll enrolls the given persons into a program inside one transaction.
// Already-enrolled persons are reported, not treated as errors. Each new
// enrollment also promotes the person to student status, ensures the student
// marker row and writes a history entry.
func (r *EnrollmentRepository) BulkEnroll(ctx context.Context, programID int64, personIDs []int64) (*models.EnrollmentResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk enroll: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT 1 FROM programs WHERE id = ?`, programID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("check program: %w", err)
	}

	result := &models.EnrollmentResult{}
	now := time.Now().UTC()

	for _, personID := range personIDs {
		var enrolled int
		err := tx.GetContext(ctx, &enrolled,
			`SELECT 1 FROM enrollments WHERE program_id = ? AND person_id = ?`, programID, personID)
		switch {
		case err == nil:
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, personID)
			continue
		case err != sql.ErrNoRows:
			return nil, fmt.Errorf("check enrollment: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (program_id, person_id, enrolled_at) VALUES (?, ?, ?)`,
			programID, personID, now); err != nil {
			return nil, fmt.Errorf("insert enrollment: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE persons SET status = ? WHERE id = ?`, models.PersonStatusStudent, personID); err != nil {
			return nil, fmt.Errorf("promote person: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT IGNORE INTO students (person_id) VALUES (?)`, personID); err != nil {
			return nil, fmt.Errorf("ensure student row: %w", err)
		}
		// The interest is fulfilled once the person is enrolled.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM applications WHERE program_id = ? AND person_id = ?`, programID, personID); err != nil {
			return nil, fmt.Errorf("clear fulfilled application: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO person_history (person_id, action, detail, created_at) VALUES (?, ?, ?, ?)`,
			personID, models.HistoryActionEnrolled, fmt.Sprintf("program %d", programID), now); err != nil {
			return nil, fmt.Errorf("record enrollment history: %w", err)
		}

		result.Enrolled = append(result.Enrolled, personID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk enroll: %w", err)
	}
	return result, nil
}

// Unenroll removes one enrollment.
func (r *EnrollmentRepository) Unenroll(ctx context.Context, programID, personID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE program_id = ? AND person_id = ?`, programID, personID)
	if err != nil {
		return fmt.Errorf("remove enrollment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
