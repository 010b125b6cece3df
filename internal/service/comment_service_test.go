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

type mockCommentRepo struct {
	comments map[int64]models.Comment
	nextID   int64
	deleted  []int64
}

func (m *mockCommentRepo) ListByPerson(ctx context.Context, personID int64) ([]models.CommentDetail, error) {
	return nil, nil
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if m.comments == nil {
		m.comments = make(map[int64]models.Comment)
	}
	m.nextID++
	comment.ID = m.nextID
	m.comments[comment.ID] = *comment
	return nil
}

func (m *mockCommentRepo) UpdateBody(ctx context.Context, id int64, body string) error {
	c, ok := m.comments[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Body = body
	m.comments[id] = c
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.comments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var (
	author = &models.User{ID: 10, Role: models.RoleNormal}
	other  = &models.User{ID: 11, Role: models.RoleNormal}
	admin  = &models.User{ID: 12, Role: models.RoleAdmin}
)

func seededCommentService(t *testing.T) (*CommentService, *mockCommentRepo, *models.Comment) {
	t.Helper()
	repo := &mockCommentRepo{}
	svc := NewCommentService(repo, nil, nil)
	comment, err := svc.Create(context.Background(), 1, author, CommentRequest{Body: "first contact made"})
	require.NoError(t, err)
	return svc, repo, comment
}

func TestCommentServiceUpdateAuthorOnly(t *testing.T) {
	svc, repo, comment := seededCommentService(t)

	require.NoError(t, svc.Update(context.Background(), comment.ID, author, CommentRequest{Body: "updated"}))
	assert.Equal(t, "updated", repo.comments[comment.ID].Body)

	err := svc.Update(context.Background(), comment.ID, other, CommentRequest{Body: "hijack"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)

	// Even admins cannot rewrite someone else's words.
	err = svc.Update(context.Background(), comment.ID, admin, CommentRequest{Body: "admin edit"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
}

func TestCommentServiceDeleteAuthorOrAdmin(t *testing.T) {
	svc, repo, comment := seededCommentService(t)

	err := svc.Delete(context.Background(), comment.ID, other)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)

	require.NoError(t, svc.Delete(context.Background(), comment.ID, admin))
	assert.Equal(t, []int64{comment.ID}, repo.deleted)
}

func TestCommentServiceUnknownComment(t *testing.T) {
	svc := NewCommentService(&mockCommentRepo{}, nil, nil)

	err := svc.Delete(context.Background(), 999, admin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
