package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// ProgramRepository manages the program catalog.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs, optionally narrowed by name substring and edition.
func (r *ProgramRepository) List(ctx context.Context, name, edition string) ([]models.Program, error) {
	stmt := `SELECT id, name, edition FROM programs`
	var conditions []string
	var args []interface{}

	if name = strings.TrimSpace(name); name != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+name+"%")
	}
	if edition = strings.TrimSpace(edition); edition != "" {
		conditions = append(conditions, "edition = ?")
		args = append(args, edition)
	}
	if len(conditions) > 0 {
		stmt += " WHERE " + strings.Join(conditions, " AND ")
	}
	stmt += " ORDER BY name, edition"

	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, stmt, args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Editions returns the distinct edition labels in use.
func (r *ProgramRepository) Editions(ctx context.Context) ([]string, error) {
	var editions []string
	if err := r.db.SelectContext(ctx, &editions,
		`SELECT DISTINCT edition FROM programs WHERE edition <> '' ORDER BY edition`); err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	return editions, nil
}

// FindByID fetches one program.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program,
		`SELECT id, name, edition FROM programs WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// Create inserts a program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO programs (name, edition) VALUES (:name, :edition)`, program)
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create program id: %w", err)
	}
	program.ID = id
	return nil
}

// Update modifies a program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE programs SET name = :name, edition = :edition WHERE id = :id`, program)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a program together with its enrollments and applications.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete program: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE program_id = ?`, id); err != nil {
		return fmt.Errorf("delete program enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE program_id = ?`, id); err != nil {
		return fmt.Errorf("delete program applications: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
