package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
)

// PersonRepository manages persistence for person records and serves the
// view-backed listings shared by the person, student and applicant endpoints.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// ListView runs one of the fixed person views with the request's filter
// parameters applied. Fixed predicates compile in declaration order, then
// attribute filters in request key order.
func (r *PersonRepository) ListView(ctx context.Context, view *query.View, params []query.Param) ([]models.PersonListItem, error) {
	fragments, args := query.CompileFixed(params, view.Predicates, view.BaseAlias)
	if view.HasAttributes {
		attrFragments, attrArgs := query.CompileAttributeParams(params, view.ReservedKeys(), view.BaseAlias)
		fragments = append(fragments, attrFragments...)
		args = append(args, attrArgs...)
	}

	stmt, bind := view.Build(view.Select, fragments, nil, args)

	var items []models.PersonListItem
	if err := r.db.SelectContext(ctx, &items, stmt, bind...); err != nil {
		return nil, fmt.Errorf("list %s: %w", view.Type, err)
	}
	return items, nil
}

// FindByID fetches a person row.
func (r *PersonRepository) FindByID(ctx context.Context, id int64) (*models.Person, error) {
	const stmt = `SELECT id, full_name, email, phone, status, marketing_opt_in FROM persons WHERE id = ?`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, stmt, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByEmail fetches a person row by email.
func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	const stmt = `SELECT id, full_name, email, phone, status, marketing_opt_in FROM persons WHERE email = ?`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, stmt, email); err != nil {
		return nil, err
	}
	return &person, nil
}

// EmailsByIDs returns the marketing-reachable recipients among the given ids.
// Opted-out persons are excluded here so callers cannot mail them by mistake.
func (r *PersonRepository) EmailsByIDs(ctx context.Context, ids []int64, marketingOnly bool) ([]models.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	stmt := `SELECT id, full_name, email, phone, status, marketing_opt_in FROM persons WHERE id IN (?)`
	if marketingOnly {
		stmt += ` AND marketing_opt_in = 1`
	}
	stmt, args, err := sqlx.In(stmt, ids)
	if err != nil {
		return nil, fmt.Errorf("expand recipient ids: %w", err)
	}

	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("load recipients: %w", err)
	}
	return persons, nil
}

// Create inserts a person and returns its generated id.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	const stmt = `INSERT INTO persons (full_name, email, phone, status, marketing_opt_in)
        VALUES (:full_name, :email, :phone, :status, :marketing_opt_in)`
	res, err := r.db.NamedExecContext(ctx, stmt, person)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create person id: %w", err)
	}
	person.ID = id
	return nil
}

// Update modifies a person's base fields.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	const stmt = `UPDATE persons SET full_name = :full_name, email = :email, phone = :phone,
        status = :status, marketing_opt_in = :marketing_opt_in WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, stmt, person)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetMarketingOptIn flips the marketing consent flag.
func (r *PersonRepository) SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error {
	const stmt = `UPDATE persons SET marketing_opt_in = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, stmt, optIn, id)
	if err != nil {
		return fmt.Errorf("set marketing opt-in: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a person and every dependent row. The dependents go first so
// the person delete cannot trip foreign keys.
func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer tx.Rollback()

	dependents := []string{
		`DELETE FROM attribute_values WHERE person_id = ?`,
		`DELETE FROM profile_comments WHERE person_id = ?`,
		`DELETE FROM person_history WHERE person_id = ?`,
		`DELETE FROM applications WHERE person_id = ?`,
		`DELETE FROM enrollments WHERE person_id = ?`,
		`DELETE FROM students WHERE person_id = ?`,
	}
	for _, stmt := range dependents {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete person dependents: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// EnrolledPrograms lists the programs a person is enrolled in.
func (r *PersonRepository) EnrolledPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error) {
	const stmt = `SELECT p.name, p.edition FROM enrollments e
        JOIN programs p ON p.id = e.program_id
        WHERE e.person_id = ? ORDER BY p.name, p.edition`
	var refs []models.ProgramRef
	if err := r.db.SelectContext(ctx, &refs, stmt, personID); err != nil {
		return nil, fmt.Errorf("list enrolled programs: %w", err)
	}
	return refs, nil
}

// InterestPrograms lists programs a person applied for and is not yet enrolled
// in. An interest disappears from the profile once the enrollment exists.
func (r *PersonRepository) InterestPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error) {
	const stmt = `SELECT p.name, p.edition FROM applications ap
        JOIN programs p ON p.id = ap.program_id
        WHERE ap.person_id = ?
          AND NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.person_id = ap.person_id AND e.program_id = ap.program_id)
        ORDER BY p.name, p.edition`
	var refs []models.ProgramRef
	if err := r.db.SelectContext(ctx, &refs, stmt, personID); err != nil {
		return nil, fmt.Errorf("list interest programs: %w", err)
	}
	return refs, nil
}
