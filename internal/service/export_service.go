package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceibcn/crm-api/internal/query"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/export"
)

type exportRepository interface {
	Run(ctx context.Context, stmt string, args []interface{}) ([]string, []map[string]string, error)
}

type exportRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportRequest describes one export run. Filters use the same keys as the
// list endpoints; attribute filters are explicit name/value pairs so their
// order survives JSON transport.
type ExportRequest struct {
	EntityType       string                  `json:"entity_type" validate:"required"`
	Format           string                  `json:"format" validate:"required,oneof=csv xlsx pdf"`
	Columns          []string                `json:"columns"`
	Filters          map[string]string       `json:"filters"`
	AttributeFilters []query.AttributeFilter `json:"attribute_filters"`
}

// ExportResult is a rendered export ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// ExportService assembles and renders dataset exports.
type ExportService struct {
	repo       exportRepository
	attributes *AttributeService
	renderers  map[string]exportRenderer
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewExportService constructs an ExportService with one renderer per format.
func NewExportService(repo exportRepository, attributes *AttributeService, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		repo:       repo,
		attributes: attributes,
		renderers: map[string]exportRenderer{
			"csv":  export.NewCSVExporter(),
			"xlsx": export.NewXLSXExporter(),
			"pdf":  export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
	}
}

// Export resolves the view, projects the requested columns, compiles the
// filters and renders the result. An empty result set still renders, with a
// single informational row, so the user gets a file either way.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	view, err := query.Resolve(req.EntityType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown entity type")
	}
	renderer, ok := s.renderers[req.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	var whitelist map[string]struct{}
	if view.HasAttributes {
		if whitelist, err = s.attributes.Whitelist(ctx); err != nil {
			return nil, err
		}
	}

	selectList, selectArgs := view.Project(req.Columns, whitelist)

	params := query.ParamsFromMap(req.Filters)
	fragments, whereArgs := query.CompileFixed(params, view.Predicates, view.BaseAlias)
	if view.HasAttributes {
		attrFragments, attrArgs := query.CompileAttributeList(req.AttributeFilters, view.BaseAlias)
		fragments = append(fragments, attrFragments...)
		whereArgs = append(whereArgs, attrArgs...)
	}

	stmt, args := view.Build(selectList, fragments, selectArgs, whereArgs)

	columns, rows, err := s.repo.Run(ctx, stmt, args)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to run export")
	}

	dataset := export.Dataset{Headers: columns, Rows: rows}
	if len(dataset.Rows) == 0 && len(columns) > 0 {
		dataset.Rows = append(dataset.Rows, map[string]string{
			columns[0]: "No records matched the selected filters",
		})
	}

	content, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", view.Filename, time.Now().UTC().Format("20060102_150405"), req.Format),
		ContentType: renderer.ContentType(),
		Content:     content,
		Rows:        len(rows),
	}
	s.logger.Info("export generated",
		zap.String("entity", req.EntityType),
		zap.String("format", req.Format),
		zap.Int("rows", result.Rows))
	return result, nil
}
