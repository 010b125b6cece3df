package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type mockExportRepo struct {
	stmt    string
	args    []interface{}
	columns []string
	rows    []map[string]string
}

func (m *mockExportRepo) Run(ctx context.Context, stmt string, args []interface{}) ([]string, []map[string]string, error) {
	m.stmt = stmt
	m.args = args
	return m.columns, m.rows, nil
}

type mockAttrRepo struct {
	names map[string]struct{}
}

func (m *mockAttrRepo) List(ctx context.Context) ([]models.Attribute, error)       { return nil, nil }
func (m *mockAttrRepo) Names(ctx context.Context) (map[string]struct{}, error)     { return m.names, nil }
func (m *mockAttrRepo) FindByName(ctx context.Context, name string) (*models.Attribute, error) {
	return nil, nil
}
func (m *mockAttrRepo) Create(ctx context.Context, attr *models.Attribute) error { return nil }
func (m *mockAttrRepo) Delete(ctx context.Context, id int64) error               { return nil }
func (m *mockAttrRepo) ValuesForPerson(ctx context.Context, personID int64) (map[string]string, error) {
	return nil, nil
}
func (m *mockAttrRepo) SetValue(ctx context.Context, personID, attributeID int64, value string) error {
	return nil
}
func (m *mockAttrRepo) DeleteValue(ctx context.Context, personID, attributeID int64) error {
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error { return appErrors.ErrCacheMiss }
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func newExportService(repo *mockExportRepo, attrNames map[string]struct{}) *ExportService {
	attrs := NewAttributeService(&mockAttrRepo{names: attrNames}, noopCache{}, time.Minute, nil, nil)
	return NewExportService(repo, attrs, nil, nil)
}

func TestExportServicePivotArgsPrecedeFilterArgs(t *testing.T) {
	repo := &mockExportRepo{
		columns: []string{"name", "city"},
		rows:    []map[string]string{{"name": "Ada", "city": "Barcelona"}},
	}
	svc := newExportService(repo, map[string]struct{}{"city": {}})

	result, err := svc.Export(context.Background(), ExportRequest{
		EntityType:       "students",
		Format:           "csv",
		Columns:          []string{"name", "city"},
		Filters:          map[string]string{"status": "student"},
		AttributeFilters: []query.AttributeFilter{{Name: "city", Value: "Bar"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "students_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	// Pivot attribute name binds before the status and attribute filters.
	assert.Equal(t, []interface{}{"city", "student", "city", "%Bar%"}, repo.args)
	assert.Contains(t, repo.stmt, "MAX(CASE WHEN a.name = ? THEN av.value END) AS `city`")
	assert.Contains(t, repo.stmt, "WHERE u.status = ? AND EXISTS")
}

func TestExportServiceEmptyResultGetsInfoRow(t *testing.T) {
	repo := &mockExportRepo{columns: []string{"name", "email"}}
	svc := newExportService(repo, nil)

	result, err := svc.Export(context.Background(), ExportRequest{
		EntityType: "persons",
		Format:     "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Rows)
	assert.Contains(t, string(result.Content), "No records matched the selected filters")
}

func TestExportServiceRejectsUnknownEntityAndFormat(t *testing.T) {
	svc := newExportService(&mockExportRepo{}, nil)

	_, err := svc.Export(context.Background(), ExportRequest{EntityType: "invoices", Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)

	_, err = svc.Export(context.Background(), ExportRequest{EntityType: "students", Format: "doc"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestExportServiceSystemViewIgnoresAttributeFilters(t *testing.T) {
	repo := &mockExportRepo{columns: []string{"name", "status"}}
	svc := newExportService(repo, map[string]struct{}{"city": {}})

	_, err := svc.Export(context.Background(), ExportRequest{
		EntityType:       "system",
		Format:           "csv",
		AttributeFilters: []query.AttributeFilter{{Name: "city", Value: "Bar"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, repo.stmt, "attribute_values")
	assert.Empty(t, repo.args)
}
