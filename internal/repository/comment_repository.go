package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ceibcn/crm-api/internal/models"
)

// CommentRepository stores profile comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository constructs the repository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByPerson returns a person's comments with author details, newest first.
func (r *CommentRepository) ListByPerson(ctx context.Context, personID int64) ([]models.CommentDetail, error) {
	const stmt = `SELECT c.id, c.body, c.created_at, us.username AS author_name, us.role AS author_role
        FROM profile_comments c JOIN users us ON us.id = c.user_id
        WHERE c.person_id = ? ORDER BY c.created_at DESC, c.id DESC`
	var comments []models.CommentDetail
	if err := r.db.SelectContext(ctx, &comments, stmt, personID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// FindByID fetches one comment.
func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment,
		`SELECT id, person_id, user_id, body, created_at FROM profile_comments WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO profile_comments (person_id, user_id, body, created_at)
         VALUES (:person_id, :user_id, :body, :created_at)`, comment)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// UpdateBody replaces a comment's text.
func (r *CommentRepository) UpdateBody(ctx context.Context, id int64, body string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profile_comments SET body = ? WHERE id = ?`, body, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profile_comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
