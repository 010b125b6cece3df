package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type mockPersonRepo struct {
	nextID  int64
	created []*models.Person
	byEmail map[string]*models.Person
	items   []models.PersonListItem
}

func (m *mockPersonRepo) ListView(ctx context.Context, view *query.View, params []query.Param) ([]models.PersonListItem, error) {
	return m.items, nil
}

func (m *mockPersonRepo) FindByID(ctx context.Context, id int64) (*models.Person, error) {
	for _, p := range m.created {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockPersonRepo) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	if p, ok := m.byEmail[email]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPersonRepo) Create(ctx context.Context, person *models.Person) error {
	m.nextID++
	person.ID = m.nextID
	m.created = append(m.created, person)
	return nil
}

func (m *mockPersonRepo) Update(ctx context.Context, person *models.Person) error { return nil }

func (m *mockPersonRepo) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockPersonRepo) SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error {
	return nil
}

func (m *mockPersonRepo) EnrolledPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error) {
	return nil, nil
}

func (m *mockPersonRepo) InterestPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error) {
	return nil, nil
}

type mockPersonAttrs struct {
	values     map[int64]map[string]string
	batchCalls int
}

func (m *mockPersonAttrs) ValuesForPerson(ctx context.Context, personID int64) (map[string]string, error) {
	return m.values[personID], nil
}

func (m *mockPersonAttrs) ValuesForPersons(ctx context.Context, personIDs []int64) (map[int64]map[string]string, error) {
	m.batchCalls++
	out := make(map[int64]map[string]string)
	for _, id := range personIDs {
		if vals, ok := m.values[id]; ok {
			out[id] = vals
		}
	}
	return out, nil
}

func newTestPersonService(repo *mockPersonRepo, attrs *mockPersonAttrs, history *mockHistoryRepo) *PersonService {
	return NewPersonService(repo, attrs, history, nil, nil)
}

func TestPersonServiceListAttachesAttributes(t *testing.T) {
	repo := &mockPersonRepo{items: []models.PersonListItem{
		{ID: 1, Name: "Laia Puig"},
		{ID: 2, Name: "Marc Soler"},
	}}
	attrs := &mockPersonAttrs{values: map[int64]map[string]string{
		1: {"city": "Barcelona"},
	}}
	svc := newTestPersonService(repo, attrs, &mockHistoryRepo{})

	items, err := svc.List(context.Background(), string(query.EntityStudents), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, map[string]string{"city": "Barcelona"}, items[0].Attributes)
	// Rows without values keep a nil map rather than dropping out.
	assert.Nil(t, items[1].Attributes)
	assert.Equal(t, 1, attrs.batchCalls)
}

func TestPersonServiceListSystemViewSkipsAttributes(t *testing.T) {
	repo := &mockPersonRepo{items: []models.PersonListItem{{ID: 1, Name: "montse"}}}
	attrs := &mockPersonAttrs{}
	svc := newTestPersonService(repo, attrs, &mockHistoryRepo{})

	items, err := svc.List(context.Background(), string(query.EntitySystem), nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, attrs.batchCalls)
}

func TestStudentServiceCreateRequiresProgram(t *testing.T) {
	repo := &mockPersonRepo{}
	persons := newTestPersonService(repo, &mockPersonAttrs{}, &mockHistoryRepo{})
	enrollments := &mockEnrollmentRepo{programs: map[int64]bool{7: true}}
	svc := NewStudentService(persons, enrollments, nil, nil)

	_, err := svc.Create(context.Background(), StudentRequest{
		Name:  "Laia Puig",
		Email: "laia@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	assert.Empty(t, repo.created)
	assert.Nil(t, enrollments.lastBatch)
}

func TestStudentServiceCreateEnrollsIntoProgram(t *testing.T) {
	repo := &mockPersonRepo{}
	history := &mockHistoryRepo{}
	persons := newTestPersonService(repo, &mockPersonAttrs{}, history)
	enrollments := &mockEnrollmentRepo{
		programs: map[int64]bool{7: true},
		enrolled: map[int64]map[int64]bool{},
	}
	svc := NewStudentService(persons, enrollments, nil, nil)

	person, err := svc.Create(context.Background(), StudentRequest{
		Name:      "Laia Puig",
		Email:     "laia@example.com",
		ProgramID: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, models.PersonStatusStudent, person.Status)
	// The enrollment is what writes the student marker row, so every intake
	// must reach the repository.
	assert.Equal(t, []int64{person.ID}, enrollments.lastBatch)

	var actions []string
	for _, e := range history.entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, models.HistoryActionStudentCreated)
}

func TestStudentServiceCreateUnknownProgram(t *testing.T) {
	repo := &mockPersonRepo{}
	persons := newTestPersonService(repo, &mockPersonAttrs{}, &mockHistoryRepo{})
	svc := NewStudentService(persons, &mockEnrollmentRepo{programs: map[int64]bool{}}, nil, nil)

	_, err := svc.Create(context.Background(), StudentRequest{
		Name:      "Laia Puig",
		Email:     "laia@example.com",
		ProgramID: 99,
	})
	require.Error(t, err)
}
