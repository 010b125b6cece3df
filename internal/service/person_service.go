package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

type personRepository interface {
	ListView(ctx context.Context, view *query.View, params []query.Param) ([]models.PersonListItem, error)
	FindByID(ctx context.Context, id int64) (*models.Person, error)
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id int64) error
	SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error
	EnrolledPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error)
	InterestPrograms(ctx context.Context, personID int64) ([]models.ProgramRef, error)
}

type personAttributeRepository interface {
	ValuesForPerson(ctx context.Context, personID int64) (map[string]string, error)
	ValuesForPersons(ctx context.Context, personIDs []int64) (map[int64]map[string]string, error)
}

type historyRepository interface {
	ListByPerson(ctx context.Context, personID int64) ([]models.HistoryEntry, error)
	Add(ctx context.Context, personID int64, action, detail string) error
}

// PersonRequest is the create/update payload for a person record.
type PersonRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Status         string `json:"status" validate:"omitempty,oneof=student applicant other"`
	MarketingOptIn *bool  `json:"marketing_opt_in"`
}

// PersonService covers the person lifecycle and the view-backed listings.
type PersonService struct {
	repo      personRepository
	attrs     personAttributeRepository
	history   historyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs a PersonService.
func NewPersonService(repo personRepository, attrs personAttributeRepository, history historyRepository, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PersonService{repo: repo, attrs: attrs, history: history, validator: validate, logger: logger}
}

// List runs the named view with the request's ordered filter parameters.
func (s *PersonService) List(ctx context.Context, entityType string, params []query.Param) ([]models.PersonListItem, error) {
	view, err := query.Resolve(entityType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown entity type")
	}
	items, err := s.repo.ListView(ctx, view, params)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list persons")
	}
	if items == nil {
		items = []models.PersonListItem{}
	}

	// Person-backed views carry each row's attribute map, loaded in one batch
	// query. The system view has no attribute store.
	if view.HasAttributes && len(items) > 0 {
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		values, err := s.attrs.ValuesForPersons(ctx, ids)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attributes")
		}
		for i := range items {
			items[i].Attributes = values[items[i].ID]
		}
	}
	return items, nil
}

// Detail assembles the full profile: base record, enrolled programs, open
// interests and attribute values.
func (s *PersonService) Detail(ctx context.Context, id int64) (*models.PersonDetail, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch person")
	}

	detail := &models.PersonDetail{Person: *person}

	if detail.EnrolledPrograms, err = s.repo.EnrolledPrograms(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programs")
	}
	if detail.InterestPrograms, err = s.repo.InterestPrograms(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interests")
	}
	if detail.Attributes, err = s.attrs.ValuesForPerson(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attributes")
	}
	return detail, nil
}

// Create registers a person. Defaults to the generic "other" status.
func (s *PersonService) Create(ctx context.Context, req PersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a person with this email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	status := models.PersonStatus(req.Status)
	if status == "" {
		status = models.PersonStatusOther
	}
	optIn := true
	if req.MarketingOptIn != nil {
		optIn = *req.MarketingOptIn
	}

	person := &models.Person{
		FullName:       req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         status,
		MarketingOptIn: optIn,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}

	s.logger.Info("person created", zap.Int64("person_id", person.ID), zap.String("status", string(person.Status)))
	return person, nil
}

// Update modifies a person's base fields and records the change.
func (s *PersonService) Update(ctx context.Context, id int64, req PersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch person")
	}

	person.FullName = req.Name
	person.Email = req.Email
	person.Phone = req.Phone
	if req.Status != "" {
		person.Status = models.PersonStatus(req.Status)
	}
	if req.MarketingOptIn != nil {
		person.MarketingOptIn = *req.MarketingOptIn
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update person")
	}
	if err := s.history.Add(ctx, id, models.HistoryActionPersonUpdated, "profile fields updated"); err != nil {
		s.logger.Warn("failed to record history", zap.Int64("person_id", id), zap.Error(err))
	}
	return person, nil
}

// Delete removes a person and all dependent rows.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	s.logger.Info("person deleted", zap.Int64("person_id", id))
	return nil
}

// History lists a person's activity log.
func (s *PersonService) History(ctx context.Context, id int64) ([]models.HistoryEntry, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch person")
	}
	entries, err := s.history.ListByPerson(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list history")
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

// RecordHistory appends a free-form history entry.
func (s *PersonService) RecordHistory(ctx context.Context, id int64, action, detail string) error {
	if err := s.history.Add(ctx, id, action, detail); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("failed to record %s", action))
	}
	return nil
}
