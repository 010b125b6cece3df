package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type presetRepository interface {
	ListByUser(ctx context.Context, userID int64, entityType string) ([]models.Preset, error)
	FindByID(ctx context.Context, id int64) (*models.Preset, error)
	Create(ctx context.Context, preset *models.Preset) error
	Delete(ctx context.Context, id, userID int64) error
}

// PresetRequest saves a filter set for reuse.
type PresetRequest struct {
	Name             string                  `json:"name" validate:"required,max=100"`
	EntityType       string                  `json:"entity_type" validate:"required"`
	Filters          map[string]string       `json:"filters"`
	AttributeFilters []query.AttributeFilter `json:"attribute_filters"`
}

// PresetService manages per-user saved filter sets.
type PresetService struct {
	repo      presetRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPresetService constructs a PresetService.
func NewPresetService(repo presetRepository, validate *validator.Validate, logger *zap.Logger) *PresetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PresetService{repo: repo, validator: validate, logger: logger}
}

// List returns the current user's presets, optionally for one entity type.
func (s *PresetService) List(ctx context.Context, userID int64, entityType string) ([]models.Preset, error) {
	if entityType != "" {
		if _, err := query.Resolve(entityType); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown entity type")
		}
	}
	presets, err := s.repo.ListByUser(ctx, userID, entityType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presets")
	}
	if presets == nil {
		presets = []models.Preset{}
	}
	return presets, nil
}

// Create stores a preset for the current user. The filter payloads are kept
// as JSON so the saved shape round-trips into an export request unchanged.
func (s *PresetService) Create(ctx context.Context, userID int64, req PresetRequest) (*models.Preset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preset payload")
	}
	if _, err := query.Resolve(req.EntityType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown entity type")
	}

	filters, err := json.Marshal(req.Filters)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode filters")
	}
	attrFilters, err := json.Marshal(req.AttributeFilters)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode attribute filters")
	}

	preset := &models.Preset{
		UserID:           userID,
		Name:             req.Name,
		EntityType:       req.EntityType,
		Filters:          filters,
		AttributeFilters: attrFilters,
	}
	if err := s.repo.Create(ctx, preset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create preset")
	}
	return preset, nil
}

// Get fetches one preset, enforcing ownership.
func (s *PresetService) Get(ctx context.Context, id, userID int64) (*models.Preset, error) {
	preset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "preset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch preset")
	}
	if preset.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preset not found")
	}
	return preset, nil
}

// Delete removes one of the current user's presets.
func (s *PresetService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "preset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preset")
	}
	return nil
}
