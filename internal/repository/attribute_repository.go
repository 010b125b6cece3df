package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// AttributeRepository manages the dynamic attribute registry and its values.
type AttributeRepository struct {
	db *sqlx.DB
}

// NewAttributeRepository constructs the repository.
func NewAttributeRepository(db *sqlx.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// List returns all registered attributes.
func (r *AttributeRepository) List(ctx context.Context) ([]models.Attribute, error) {
	var attrs []models.Attribute
	if err := r.db.SelectContext(ctx, &attrs,
		`SELECT id, name FROM attributes ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return attrs, nil
}

// Names returns the registered attribute names as a set, the whitelist for
// pivot projections.
func (r *AttributeRepository) Names(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM attributes`); err != nil {
		return nil, fmt.Errorf("list attribute names: %w", err)
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

// FindByName fetches an attribute by its unique name.
func (r *AttributeRepository) FindByName(ctx context.Context, name string) (*models.Attribute, error) {
	var attr models.Attribute
	if err := r.db.GetContext(ctx, &attr,
		`SELECT id, name FROM attributes WHERE name = ?`, name); err != nil {
		return nil, err
	}
	return &attr, nil
}

// Create registers a new attribute name.
func (r *AttributeRepository) Create(ctx context.Context, attr *models.Attribute) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO attributes (name) VALUES (:name)`, attr)
	if err != nil {
		return fmt.Errorf("create attribute: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create attribute id: %w", err)
	}
	attr.ID = id
	return nil
}

// Delete removes an attribute and all its stored values.
func (r *AttributeRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete attribute: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attribute_values WHERE attribute_id = ?`, id); err != nil {
		return fmt.Errorf("delete attribute values: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM attributes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete attribute: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ValuesForPerson returns a person's attribute values keyed by attribute name.
func (r *AttributeRepository) ValuesForPerson(ctx context.Context, personID int64) (map[string]string, error) {
	rows := []struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}{}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT a.name, av.value FROM attribute_values av
         JOIN attributes a ON a.id = av.attribute_id
         WHERE av.person_id = ? ORDER BY a.name`, personID); err != nil {
		return nil, fmt.Errorf("load person attributes: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	return values, nil
}

// ValuesForPersons returns the attribute maps for a batch of persons in one
// query, keyed by person id. Persons without values are absent from the
// result.
func (r *AttributeRepository) ValuesForPersons(ctx context.Context, personIDs []int64) (map[int64]map[string]string, error) {
	if len(personIDs) == 0 {
		return map[int64]map[string]string{}, nil
	}

	stmt, args, err := sqlx.In(
		`SELECT av.person_id, a.name, av.value FROM attribute_values av
         JOIN attributes a ON a.id = av.attribute_id
         WHERE av.person_id IN (?)`, personIDs)
	if err != nil {
		return nil, fmt.Errorf("build batch attribute query: %w", err)
	}

	rows := []struct {
		PersonID int64  `db:"person_id"`
		Name     string `db:"name"`
		Value    string `db:"value"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("load batch attributes: %w", err)
	}

	values := make(map[int64]map[string]string)
	for _, row := range rows {
		if values[row.PersonID] == nil {
			values[row.PersonID] = make(map[string]string)
		}
		values[row.PersonID][row.Name] = row.Value
	}
	return values, nil
}

// SetValue upserts one attribute value for a person.
func (r *AttributeRepository) SetValue(ctx context.Context, personID, attributeID int64, value string) error {
	const stmt = `INSERT INTO attribute_values (person_id, attribute_id, value)
        VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`
	if _, err := r.db.ExecContext(ctx, stmt, personID, attributeID, value); err != nil {
		return fmt.Errorf("set attribute value: %w", err)
	}
	return nil
}

// DeleteValue removes one attribute value from a person.
func (r *AttributeRepository) DeleteValue(ctx context.Context, personID, attributeID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM attribute_values WHERE person_id = ? AND attribute_id = ?`, personID, attributeID)
	if err != nil {
		return fmt.Errorf("delete attribute value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
