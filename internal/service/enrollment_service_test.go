package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrolled    map[int64]map[int64]bool // programID -> personID
	programs    map[int64]bool
	lastBatch   []int64
	unenrolled  [][2]int64
	failProgram bool
}

func (m *mockEnrollmentRepo) ListByProgram(ctx context.Context, programID int64) ([]models.Person, error) {
	return nil, nil
}

func (m *mockEnrollmentRepo) BulkEnroll(ctx context.Context, programID int64, personIDs []int64) (*models.EnrollmentResult, error) {
	if !m.programs[programID] {
		return nil, sql.ErrNoRows
	}
	m.lastBatch = personIDs
	result := &models.EnrollmentResult{}
	for _, id := range personIDs {
		if m.enrolled[programID][id] {
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, id)
			continue
		}
		result.Enrolled = append(result.Enrolled, id)
	}
	return result, nil
}

func (m *mockEnrollmentRepo) Unenroll(ctx context.Context, programID, personID int64) error {
	if !m.enrolled[programID][personID] {
		return sql.ErrNoRows
	}
	m.unenrolled = append(m.unenrolled, [2]int64{programID, personID})
	return nil
}

type mockHistoryRepo struct {
	entries []models.HistoryEntry
}

func (m *mockHistoryRepo) ListByPerson(ctx context.Context, personID int64) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	for _, e := range m.entries {
		if e.PersonID == personID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) Add(ctx context.Context, personID int64, action, detail string) error {
	m.entries = append(m.entries, models.HistoryEntry{PersonID: personID, Action: action, Detail: detail})
	return nil
}

func TestEnrollmentServiceBulkEnrollPartial(t *testing.T) {
	repo := &mockEnrollmentRepo{
		programs: map[int64]bool{7: true},
		enrolled: map[int64]map[int64]bool{7: {1: true}},
	}
	svc := NewEnrollmentService(repo, &mockHistoryRepo{}, nil, nil)

	result, err := svc.BulkEnroll(context.Background(), 7, BulkEnrollRequest{PersonIDs: []int64{1, 2, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, result.Enrolled)
	assert.Equal(t, []int64{1}, result.AlreadyEnrolled)
	// Duplicate ids collapse before hitting the repository.
	assert.Equal(t, []int64{1, 2, 3}, repo.lastBatch)
}

func TestEnrollmentServiceBulkEnrollAllAlreadyEnrolled(t *testing.T) {
	repo := &mockEnrollmentRepo{
		programs: map[int64]bool{7: true},
		enrolled: map[int64]map[int64]bool{7: {1: true, 2: true}},
	}
	svc := NewEnrollmentService(repo, &mockHistoryRepo{}, nil, nil)

	_, err := svc.BulkEnroll(context.Background(), 7, BulkEnrollRequest{PersonIDs: []int64{1, 2}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErr.Status)
}

func TestEnrollmentServiceBulkEnrollUnknownProgram(t *testing.T) {
	repo := &mockEnrollmentRepo{programs: map[int64]bool{}}
	svc := NewEnrollmentService(repo, &mockHistoryRepo{}, nil, nil)

	_, err := svc.BulkEnroll(context.Background(), 99, BulkEnrollRequest{PersonIDs: []int64{1}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestEnrollmentServiceBulkEnrollEmptyBatch(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, &mockHistoryRepo{}, nil, nil)

	_, err := svc.BulkEnroll(context.Background(), 7, BulkEnrollRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestEnrollmentServiceUnenrollRecordsHistory(t *testing.T) {
	repo := &mockEnrollmentRepo{
		programs: map[int64]bool{7: true},
		enrolled: map[int64]map[int64]bool{7: {5: true}},
	}
	history := &mockHistoryRepo{}
	svc := NewEnrollmentService(repo, history, nil, nil)

	require.NoError(t, svc.Unenroll(context.Background(), 7, 5))
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.HistoryActionUnenrolled, history.entries[0].Action)
}
