package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type applicationRepository interface {
	Exists(ctx context.Context, personID, programID int64) (bool, error)
	Add(ctx context.Context, personID, programID int64) error
	Remove(ctx context.Context, personID, programID int64) error
}

// ApplicantRequest creates a person as an applicant with their first program
// interest.
type ApplicantRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	ProgramID int64  `json:"program_id" validate:"required"`
}

// ApplicantService covers applicant intake and interest management.
type ApplicantService struct {
	persons      *PersonService
	applications applicationRepository
	programs     programCatalog
	validator    *validator.Validate
	logger       *zap.Logger
}

type programCatalog interface {
	FindByID(ctx context.Context, id int64) (*models.Program, error)
}

// NewApplicantService constructs an ApplicantService.
func NewApplicantService(persons *PersonService, applications applicationRepository, programs programCatalog, validate *validator.Validate, logger *zap.Logger) *ApplicantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicantService{persons: persons, applications: applications, programs: programs, validator: validate, logger: logger}
}

// List runs the applicants view.
func (s *ApplicantService) List(ctx context.Context, params []query.Param) ([]models.PersonListItem, error) {
	return s.persons.List(ctx, string(query.EntityApplicants), params)
}

// Create registers an applicant together with their program interest.
func (s *ApplicantService) Create(ctx context.Context, req ApplicantRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid applicant payload")
	}

	if _, err := s.programs.FindByID(ctx, req.ProgramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch program")
	}

	person, err := s.persons.Create(ctx, PersonRequest{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: string(models.PersonStatusApplicant),
	})
	if err != nil {
		return nil, err
	}

	if err := s.applications.Add(ctx, person.ID, req.ProgramID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record program interest")
	}
	if err := s.persons.RecordHistory(ctx, person.ID, models.HistoryActionApplicantCreated, ""); err != nil {
		s.logger.Warn("failed to record applicant creation", zap.Int64("person_id", person.ID), zap.Error(err))
	}
	return person, nil
}

// AddInterest declares a person's interest in a program. Duplicate interest is
// a conflict.
func (s *ApplicantService) AddInterest(ctx context.Context, personID, programID int64) error {
	if _, err := s.programs.FindByID(ctx, programID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch program")
	}

	exists, err := s.applications.Exists(ctx, personID, programID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check interest")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "interest already declared")
	}
	if err := s.applications.Add(ctx, personID, programID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add interest")
	}
	return nil
}

// RemoveInterest withdraws a declared interest.
func (s *ApplicantService) RemoveInterest(ctx context.Context, personID, programID int64) error {
	if err := s.applications.Remove(ctx, personID, programID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "interest not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove interest")
	}
	return nil
}
