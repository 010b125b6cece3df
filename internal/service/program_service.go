package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, name, edition string) ([]models.Program, error)
	Editions(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
}

type lookupCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const editionsCacheKey = "lookup:editions"

// ProgramRequest is the program create/update payload.
type ProgramRequest struct {
	Name    string `json:"name" validate:"required"`
	Edition string `json:"edition"`
}

// ProgramService manages the program catalog. The edition list is cached
// because the UI requests it on every filter panel render.
type ProgramService struct {
	repo       programRepository
	cache      lookupCache
	editionTTL time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo programRepository, cache lookupCache, editionTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProgramService{repo: repo, cache: cache, editionTTL: editionTTL, validator: validate, logger: logger}
}

// List returns programs matching the optional name and edition filters.
func (s *ProgramService) List(ctx context.Context, name, edition string) ([]models.Program, error) {
	programs, err := s.repo.List(ctx, name, edition)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	if programs == nil {
		programs = []models.Program{}
	}
	return programs, nil
}

// Editions returns the distinct edition labels, served from cache when warm.
func (s *ProgramService) Editions(ctx context.Context) ([]string, error) {
	var editions []string
	if err := s.cache.Get(ctx, editionsCacheKey, &editions); err == nil {
		return editions, nil
	}

	editions, err := s.repo.Editions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list editions")
	}
	if editions == nil {
		editions = []string{}
	}
	if err := s.cache.Set(ctx, editionsCacheKey, editions, s.editionTTL); err != nil {
		s.logger.Warn("failed to cache editions", zap.Error(err))
	}
	return editions, nil
}

// Get fetches one program.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch program")
	}
	return program, nil
}

// Create registers a program and invalidates the edition cache.
func (s *ProgramService) Create(ctx context.Context, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	program := &models.Program{Name: req.Name, Edition: req.Edition}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	s.invalidateEditions(ctx)
	return program, nil
}

// Update modifies a program and invalidates the edition cache.
func (s *ProgramService) Update(ctx context.Context, id int64, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	program := &models.Program{ID: id, Name: req.Name, Edition: req.Edition}
	if err := s.repo.Update(ctx, program); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	s.invalidateEditions(ctx)
	return program, nil
}

// Delete removes a program with its enrollments and applications.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	s.invalidateEditions(ctx)
	return nil
}

func (s *ProgramService) invalidateEditions(ctx context.Context) {
	if err := s.cache.Delete(ctx, editionsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate edition cache", zap.Error(err))
	}
}
