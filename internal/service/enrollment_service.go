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

type enrollmentRepository interface {
	ListByProgram(ctx context.Context, programID int64) ([]models.Person, error)
	BulkEnroll(ctx context.Context, programID int64, personIDs []int64) (*models.EnrollmentResult, error)
	Unenroll(ctx context.Context, programID, personID int64) error
}

// BulkEnrollRequest enrolls a batch of persons into one program.
type BulkEnrollRequest struct {
	PersonIDs []int64 `json:"person_ids" validate:"required,min=1,dive,gt=0"`
}

// EnrollmentService manages program membership.
type EnrollmentService struct {
	repo      enrollmentRepository
	history   historyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, history historyRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{repo: repo, history: history, validator: validate, logger: logger}
}

// ListByProgram returns a program's enrolled persons.
func (s *EnrollmentService) ListByProgram(ctx context.Context, programID int64) ([]models.Person, error) {
	persons, err := s.repo.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if persons == nil {
		persons = []models.Person{}
	}
	return persons, nil
}

// BulkEnroll enrolls the batch, tolerating persons who are already members.
// The call only fails outright when every requested person was already
// enrolled, so repeated submissions surface as a client error instead of a
// silent no-op.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, programID int64, req BulkEnrollRequest) (*models.EnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	result, err := s.repo.BulkEnroll(ctx, programID, dedupe(req.PersonIDs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll persons")
	}

	if len(result.Enrolled) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "all requested persons are already enrolled")
	}

	s.logger.Info("bulk enrollment completed",
		zap.Int64("program_id", programID),
		zap.Int("enrolled", len(result.Enrolled)),
		zap.Int("already_enrolled", len(result.AlreadyEnrolled)))
	return result, nil
}

// Unenroll removes one person from a program.
func (s *EnrollmentService) Unenroll(ctx context.Context, programID, personID int64) error {
	if err := s.repo.Unenroll(ctx, programID, personID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove enrollment")
	}
	if err := s.history.Add(ctx, personID, models.HistoryActionUnenrolled, ""); err != nil {
		s.logger.Warn("failed to record unenrollment", zap.Int64("person_id", personID), zap.Error(err))
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
