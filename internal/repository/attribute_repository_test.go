package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestAttributeRepositorySetValueUpserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttributeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attribute_values (person_id, attribute_id, value)")).
		WithArgs(int64(1), int64(2), "Barcelona").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetValue(context.Background(), 1, 2, "Barcelona"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeRepositoryValuesForPersonsBatches(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttributeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE av.person_id IN (?, ?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"person_id", "name", "value"}).
			AddRow(1, "city", "Barcelona").
			AddRow(1, "company", "ACME").
			AddRow(2, "city", "Girona"))

	values, err := repo.ValuesForPersons(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"city": "Barcelona", "company": "ACME"}, values[1])
	require.Equal(t, map[string]string{"city": "Girona"}, values[2])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeRepositoryValuesForPersonsEmptyBatch(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttributeRepository(db)

	values, err := repo.ValuesForPersons(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestAttributeRepositoryNames(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttributeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM attributes")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("city").AddRow("company"))

	names, err := repo.Names(context.Background())
	require.NoError(t, err)
	require.Contains(t, names, "city")
	require.Contains(t, names, "company")
	require.Len(t, names, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeRepositoryDeleteRemovesValuesFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttributeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attribute_values WHERE attribute_id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attributes WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
