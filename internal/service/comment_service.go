package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type commentRepository interface {
	ListByPerson(ctx context.Context, personID int64) ([]models.CommentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateBody(ctx context.Context, id int64, body string) error
	Delete(ctx context.Context, id int64) error
}

// CommentRequest is the comment create/update payload.
type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// CommentService manages profile comments. Authors edit their own comments;
// admins may also delete others'.
type CommentService struct {
	repo      commentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommentService constructs a CommentService.
func NewCommentService(repo commentRepository, validate *validator.Validate, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CommentService{repo: repo, validator: validate, logger: logger}
}

// ListByPerson returns a person's comments.
func (s *CommentService) ListByPerson(ctx context.Context, personID int64) ([]models.CommentDetail, error) {
	comments, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	if comments == nil {
		comments = []models.CommentDetail{}
	}
	return comments, nil
}

// Create adds a comment authored by the current user.
func (s *CommentService) Create(ctx context.Context, personID int64, author *models.User, req CommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	comment := &models.Comment{PersonID: personID, UserID: author.ID, Body: req.Body}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

// Update replaces a comment's text. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, id int64, actor *models.User, req CommentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author can edit a comment")
	}
	if err := s.repo.UpdateBody(ctx, id, req.Body); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update comment")
	}
	return nil
}

// Delete removes a comment. The author or an admin may delete it.
func (s *CommentService) Delete(ctx context.Context, id int64, actor *models.User) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this comment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	return nil
}

func (s *CommentService) find(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	return comment, nil
}
