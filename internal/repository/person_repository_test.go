package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ceibcn/crm-api/internal/query"
)

func TestPersonRepositoryListViewBindsFiltersInOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	view, err := query.Resolve("students")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "status", "programs", "enrolled_at", "interests"}).
		AddRow(1, "Ada Lovelace", "ada@example.com", "600111222", "student", "Data Engineering", nil, "")

	// Fixed predicate order first (name before program), attribute filter
	// last, regardless of request order.
	mock.ExpectQuery("SELECT u.id AS id.*FROM persons u.*WHERE u.full_name LIKE \\? AND p.name LIKE \\? AND EXISTS.*GROUP BY u.id ORDER BY u.full_name").
		WithArgs("%Ada%", "%Data%", "city", "%Barcelona%").
		WillReturnRows(rows)

	items, err := repo.ListView(context.Background(), view, []query.Param{
		{Key: "city", Value: "Barcelona"},
		{Key: "program", Value: "Data"},
		{Key: "name", Value: "Ada"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Ada Lovelace", items[0].Name)
	require.Equal(t, "Data Engineering", items[0].Programs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"attribute_values", "profile_comments", "person_history",
		"applications", "enrollments", "students",
	} {
		mock.ExpectExec("DELETE FROM " + table + " WHERE person_id = \\?").
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("DELETE FROM persons WHERE id = \\?").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteUnknownID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"attribute_values", "profile_comments", "person_history",
		"applications", "enrollments", "students",
	} {
		mock.ExpectExec("DELETE FROM " + table + " WHERE person_id = \\?").
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("DELETE FROM persons WHERE id = \\?").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryInterestProgramsExcludesEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	rows := sqlmock.NewRows([]string{"name", "edition"}).AddRow("UX Design", "2026")
	mock.ExpectQuery("SELECT p.name, p.edition FROM applications ap.*NOT EXISTS \\(SELECT 1 FROM enrollments e WHERE e.person_id = ap.person_id AND e.program_id = ap.program_id\\)").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	refs, err := repo.InterestPrograms(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "UX Design", refs[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
