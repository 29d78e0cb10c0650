package preview

import (
	"strconv"
	"time"

	"github.com/ekaya-inc/ekaya-preview/pkg/i18n"
	"github.com/ekaya-inc/ekaya-preview/pkg/jsonutil"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
)

// Cell class names the renderer styles.
const (
	ClassInvalidCell     = "invalid-cell"
	ClassUnsupportedCell = "unsupported-cell"
)

// Default display layouts for date and datetime cells.
const (
	DefaultDateLayout     = "2006-01-02"
	DefaultDateTimeLayout = "2006-01-02 15:04:05"
)

// CellFormatter renders projected cells and headers with localized labels.
type CellFormatter struct {
	translations   i18n.Translations
	dateLayout     string
	dateTimeLayout string
}

// NewCellFormatter creates a formatter. Empty layouts fall back to the defaults.
func NewCellFormatter(translations i18n.Translations, dateLayout, dateTimeLayout string) *CellFormatter {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if dateTimeLayout == "" {
		dateTimeLayout = DefaultDateTimeLayout
	}
	return &CellFormatter{
		translations:   translations,
		dateLayout:     dateLayout,
		dateTimeLayout: dateTimeLayout,
	}
}

// InvalidityLabel returns the translated label for an invalidity kind.
func (f *CellFormatter) InvalidityLabel(kind models.InvalidityType) string {
	switch kind {
	case models.InvalidityInvalidDate:
		return f.translations.InvalidDate
	case models.InvalidityInvalidDatetime:
		return f.translations.InvalidDatetime
	case models.InvalidityUnsupportedColumn:
		return f.translations.Unsupported
	case models.InvalidityNone:
		return ""
	default:
		return f.translations.InvalidValue
	}
}

// DecorateHeaders marks unsupported column headers with the translated label.
func (f *CellFormatter) DecorateHeaders(columns []models.ColumnDefinition) {
	for i := range columns {
		if columns[i].Unsupported {
			columns[i].HeaderTooltip = f.translations.Unsupported
		} else {
			columns[i].HeaderTooltip = ""
		}
	}
}

// FormatCell renders the value of column in row.
// Unsupported columns render empty; invalid cells keep their raw text and
// carry the invalid class and label.
func (f *CellFormatter) FormatCell(row *models.Row, column *models.ColumnDefinition) models.CellDisplay {
	if column.Unsupported {
		return models.CellDisplay{ClassName: ClassUnsupportedCell, Tooltip: f.translations.Unsupported}
	}

	value := row.Fields[column.Field]
	if kind := row.InvalidityOf(column.Field); kind != models.InvalidityNone {
		return models.CellDisplay{
			Text:      jsonutil.Stringify(value),
			ClassName: ClassInvalidCell,
			Tooltip:   f.InvalidityLabel(kind),
		}
	}

	switch v := value.(type) {
	case nil:
		return models.CellDisplay{}
	case time.Time:
		layout := f.dateTimeLayout
		if column.Type == models.GridTypeDate {
			layout = f.dateLayout
		}
		return models.CellDisplay{Text: v.UTC().Format(layout)}
	case bool:
		return models.CellDisplay{Text: strconv.FormatBool(v)}
	}
	return models.CellDisplay{Text: jsonutil.Stringify(value)}
}

// FormatRows renders every cell of the projection, keyed by field.
func (f *CellFormatter) FormatRows(proj *models.Projection) []map[string]models.CellDisplay {
	out := make([]map[string]models.CellDisplay, len(proj.Rows))
	for i := range proj.Rows {
		cells := make(map[string]models.CellDisplay, len(proj.Columns))
		for j := range proj.Columns {
			cells[proj.Columns[j].Field] = f.FormatCell(&proj.Rows[i], &proj.Columns[j])
		}
		out[i] = cells
	}
	return out
}
