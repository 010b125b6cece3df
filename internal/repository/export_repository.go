package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ExportRepository executes assembled export statements and returns rows as
// generic string maps, since the column set is decided per request.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs the repository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Run executes the statement and stringifies every cell. NULL becomes the
// empty string.
func (r *ExportRepository) Run(ctx context.Context, stmt string, args []interface{}) ([]string, []map[string]string, error) {
	rows, err := r.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("run export query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("export columns: %w", err)
	}

	var result []map[string]string
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("scan export row: %w", err)
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			row[col] = stringify(raw[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return columns, result, nil
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(value)
	case string:
		return value
	case time.Time:
		return value.Format("2006-01-02 15:04:05")
	case sql.RawBytes:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
