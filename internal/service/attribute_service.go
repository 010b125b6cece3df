package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type attributeRepository interface {
	List(ctx context.Context) ([]models.Attribute, error)
	Names(ctx context.Context) (map[string]struct{}, error)
	FindByName(ctx context.Context, name string) (*models.Attribute, error)
	Create(ctx context.Context, attr *models.Attribute) error
	Delete(ctx context.Context, id int64) error
	ValuesForPerson(ctx context.Context, personID int64) (map[string]string, error)
	SetValue(ctx context.Context, personID, attributeID int64, value string) error
	DeleteValue(ctx context.Context, personID, attributeID int64) error
}

const attributesCacheKey = "lookup:attributes"

// AttributeRequest registers a dynamic attribute name.
type AttributeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AttributeValueRequest sets a value for one person.
type AttributeValueRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// AttributeService manages the dynamic attribute registry. The registered
// name set is cached because every export and filtered listing consults it.
type AttributeService struct {
	repo      attributeRepository
	cache     lookupCache
	attrTTL   time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttributeService constructs an AttributeService.
func NewAttributeService(repo attributeRepository, cache lookupCache, attrTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AttributeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttributeService{repo: repo, cache: cache, attrTTL: attrTTL, validator: validate, logger: logger}
}

// List returns the registered attributes.
func (s *AttributeService) List(ctx context.Context) ([]models.Attribute, error) {
	attrs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attributes")
	}
	if attrs == nil {
		attrs = []models.Attribute{}
	}
	return attrs, nil
}

// Whitelist returns the registered attribute names as a set, cached.
func (s *AttributeService) Whitelist(ctx context.Context) (map[string]struct{}, error) {
	var cached []string
	if err := s.cache.Get(ctx, attributesCacheKey, &cached); err == nil {
		set := make(map[string]struct{}, len(cached))
		for _, name := range cached {
			set[name] = struct{}{}
		}
		return set, nil
	}

	set, err := s.repo.Names(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attribute names")
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	if err := s.cache.Set(ctx, attributesCacheKey, names, s.attrTTL); err != nil {
		s.logger.Warn("failed to cache attribute names", zap.Error(err))
	}
	return set, nil
}

// Create registers a new attribute name. Duplicates are a conflict.
func (s *AttributeService) Create(ctx context.Context, req AttributeRequest) (*models.Attribute, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attribute payload")
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "attribute already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attribute")
	}

	attr := &models.Attribute{Name: name}
	if err := s.repo.Create(ctx, attr); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attribute")
	}
	s.invalidate(ctx)
	return attr, nil
}

// Delete removes an attribute and its stored values.
func (s *AttributeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attribute not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attribute")
	}
	s.invalidate(ctx)
	return nil
}

// SetValue upserts an attribute value on a person. The attribute must be
// registered first.
func (s *AttributeService) SetValue(ctx context.Context, personID int64, req AttributeValueRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attribute value payload")
	}

	attr, err := s.repo.FindByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attribute not registered")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attribute")
	}

	if err := s.repo.SetValue(ctx, personID, attr.ID, req.Value); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set attribute value")
	}
	return nil
}

// DeleteValue removes an attribute value from a person.
func (s *AttributeService) DeleteValue(ctx context.Context, personID int64, name string) error {
	attr, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attribute not registered")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attribute")
	}
	if err := s.repo.DeleteValue(ctx, personID, attr.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attribute value not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attribute value")
	}
	return nil
}

func (s *AttributeService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, attributesCacheKey); err != nil {
		s.logger.Warn("failed to invalidate attribute cache", zap.Error(err))
	}
}
