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

type signatureRepository interface {
	List(ctx context.Context) ([]models.Signature, error)
	FindByID(ctx context.Context, id int64) (*models.Signature, error)
	GetDefault(ctx context.Context) (*models.Signature, error)
	Create(ctx context.Context, signature *models.Signature) error
	Update(ctx context.Context, signature *models.Signature) error
	SetDefault(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// SignatureRequest is the signature create/update payload.
type SignatureRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	HTML      string `json:"html" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// SignatureService manages shared email signatures.
type SignatureService struct {
	repo      signatureRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSignatureService constructs a SignatureService.
func NewSignatureService(repo signatureRepository, validate *validator.Validate, logger *zap.Logger) *SignatureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SignatureService{repo: repo, validator: validate, logger: logger}
}

// List returns active signatures.
func (s *SignatureService) List(ctx context.Context) ([]models.Signature, error) {
	signatures, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list signatures")
	}
	if signatures == nil {
		signatures = []models.Signature{}
	}
	return signatures, nil
}

// Get fetches one signature.
func (s *SignatureService) Get(ctx context.Context, id int64) (*models.Signature, error) {
	signature, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "signature not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch signature")
	}
	return signature, nil
}

// Default returns the default signature, or nil when none is set.
func (s *SignatureService) Default(ctx context.Context) (*models.Signature, error) {
	signature, err := s.repo.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch default signature")
	}
	return signature, nil
}

// Create stores a signature. When flagged default it takes the flag over.
func (s *SignatureService) Create(ctx context.Context, req SignatureRequest) (*models.Signature, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signature payload")
	}
	signature := &models.Signature{Name: req.Name, HTML: req.HTML}
	if err := s.repo.Create(ctx, signature); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create signature")
	}
	if req.IsDefault {
		if err := s.repo.SetDefault(ctx, signature.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set default signature")
		}
		signature.IsDefault = true
	}
	return signature, nil
}

// Update modifies a signature's name and content.
func (s *SignatureService) Update(ctx context.Context, id int64, req SignatureRequest) (*models.Signature, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signature payload")
	}
	signature := &models.Signature{ID: id, Name: req.Name, HTML: req.HTML}
	if err := s.repo.Update(ctx, signature); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "signature not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update signature")
	}
	if req.IsDefault {
		if err := s.repo.SetDefault(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set default signature")
		}
		signature.IsDefault = true
	}
	return signature, nil
}

// SetDefault promotes one signature to default.
func (s *SignatureService) SetDefault(ctx context.Context, id int64) error {
	if err := s.repo.SetDefault(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "signature not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set default signature")
	}
	return nil
}

// Delete retires a signature.
func (s *SignatureService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "signature not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete signature")
	}
	return nil
}
