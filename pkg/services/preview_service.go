package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-preview/pkg/config"
	"github.com/ekaya-inc/ekaya-preview/pkg/i18n"
	"github.com/ekaya-inc/ekaya-preview/pkg/logging"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
	"github.com/ekaya-inc/ekaya-preview/pkg/preview"
)

// TranslationLookup resolves an Accept-Language header to translations.
// *i18n.Catalog satisfies it.
type TranslationLookup interface {
	Match(acceptLanguage string) i18n.Match
	Locale(locale string) (i18n.Translations, error)
	Locales() []string
}

// PreviewRequest is one render of a schema and its preview payload.
type PreviewRequest struct {
	Schema         *models.TableSchema
	Preview        *models.PreviewPayload
	SortField      string
	Descending     bool
	AcceptLanguage string
}

// PreviewService renders preview payloads into grid-ready projections.
type PreviewService interface {
	Render(ctx context.Context, req *PreviewRequest) (*models.PreviewResult, error)
	// Labels returns the label set of one exact locale.
	Labels(locale string) (i18n.Translations, error)
	// Locales lists the locales labels are available in, default first.
	Locales() []string
}

type previewService struct {
	translations TranslationLookup
	cfg          config.PreviewConfig
	logger       *zap.Logger
}

func NewPreviewService(translations TranslationLookup, cfg config.PreviewConfig, logger *zap.Logger) PreviewService {
	return &previewService{
		translations: translations,
		cfg:          cfg,
		logger:       logger.Named("preview-service"),
	}
}

var _ PreviewService = (*previewService)(nil)

func (s *previewService) Render(ctx context.Context, req *PreviewRequest) (*models.PreviewResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proj := preview.Project(req.Schema, req.Preview)

	if req.SortField != "" {
		if err := preview.SortRows(proj, req.SortField, req.Descending); err != nil {
			s.logger.Debug("Rejected sort request",
				zap.String("field", logging.SanitizeValue(req.SortField)),
				zap.Error(err))
			return nil, fmt.Errorf("sort rows: %w", err)
		}
	}

	match := s.translations.Match(req.AcceptLanguage)
	formatter := preview.NewCellFormatter(match.Translations, s.cfg.DateLayout, s.cfg.DateTimeLayout)
	formatter.DecorateHeaders(proj.Columns)

	result := &models.PreviewResult{
		Projection:             *proj,
		RowsLabel:              match.Translations.RowsLabel(proj.NumberOfRows),
		Locale:                 match.Locale,
		Cells:                  formatter.FormatRows(proj),
		TranslationsGeneration: match.Generation,
	}

	s.logger.Debug("Rendered preview",
		zap.Int("columns", len(result.Columns)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("invalid_cells", countInvalidCells(result.Rows)),
		zap.Bool("has_unsupported", result.IsAtLeastOneColumnUnsupported),
		zap.String("locale", match.Locale))

	return result, nil
}

func (s *previewService) Labels(locale string) (i18n.Translations, error) {
	t, err := s.translations.Locale(locale)
	if err != nil {
		return i18n.Translations{}, fmt.Errorf("labels: %w", err)
	}
	return t, nil
}

func (s *previewService) Locales() []string {
	return s.translations.Locales()
}

func countInvalidCells(rows []models.Row) int {
	n := 0
	for i := range rows {
		n += len(rows[i].InvalidFieldsInfo)
	}
	return n
}
