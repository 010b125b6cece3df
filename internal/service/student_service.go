package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type studentEnrollmentRepository interface {
	BulkEnroll(ctx context.Context, programID int64, personIDs []int64) (*models.EnrollmentResult, error)
}

// StudentRequest creates a person directly as a student. The program is
// mandatory: the enrollment is what writes the student marker row the
// students view joins on.
type StudentRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	ProgramID int64  `json:"program_id" validate:"required,gt=0"`
}

// StudentService covers the student-facing listing and intake flow on top of
// the shared person lifecycle.
type StudentService struct {
	persons     *PersonService
	enrollments studentEnrollmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(persons *PersonService, enrollments studentEnrollmentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{persons: persons, enrollments: enrollments, validator: validate, logger: logger}
}

// List runs the students view.
func (s *StudentService) List(ctx context.Context, params []query.Param) ([]models.PersonListItem, error) {
	return s.persons.List(ctx, string(query.EntityStudents), params)
}

// Create registers a new student and enrolls them into the requested program,
// which also writes the student marker row and the enrollment history entry.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	person, err := s.persons.Create(ctx, PersonRequest{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: string(models.PersonStatusStudent),
	})
	if err != nil {
		return nil, err
	}

	if err := s.persons.RecordHistory(ctx, person.ID, models.HistoryActionStudentCreated, ""); err != nil {
		s.logger.Warn("failed to record student creation", zap.Int64("person_id", person.ID), zap.Error(err))
	}

	if _, err := s.enrollments.BulkEnroll(ctx, req.ProgramID, []int64{person.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("student created but enrollment into program %d failed", req.ProgramID))
	}

	return person, nil
}
