package models

import (
	"encoding/json"
	"slices"
	"strings"
)

// ============================================================================
// Column Types
// ============================================================================

// ColumnType is the declared type of a table schema field.
type ColumnType string

const (
	ColumnTypeString    ColumnType = "string"
	ColumnTypeNumber    ColumnType = "number"
	ColumnTypeInteger   ColumnType = "integer"
	ColumnTypeBoolean   ColumnType = "boolean"
	ColumnTypeDate      ColumnType = "date"
	ColumnTypeTime      ColumnType = "time"
	ColumnTypeDatetime  ColumnType = "datetime"
	ColumnTypeYear      ColumnType = "year"
	ColumnTypeYearMonth ColumnType = "yearmonth"
	ColumnTypeDuration  ColumnType = "duration"
	ColumnTypeGeopoint  ColumnType = "geopoint"
	ColumnTypeGeoJSON   ColumnType = "geojson"
	ColumnTypeObject    ColumnType = "object"
	ColumnTypeArray     ColumnType = "array"
	ColumnTypeAny       ColumnType = "any"

	// ColumnTypeUnknown stands in for any type string outside the vocabulary.
	ColumnTypeUnknown ColumnType = ""
)

// KnownColumnTypes lists the recognised type vocabulary.
var KnownColumnTypes = []ColumnType{
	ColumnTypeString,
	ColumnTypeNumber,
	ColumnTypeInteger,
	ColumnTypeBoolean,
	ColumnTypeDate,
	ColumnTypeTime,
	ColumnTypeDatetime,
	ColumnTypeYear,
	ColumnTypeYearMonth,
	ColumnTypeDuration,
	ColumnTypeGeopoint,
	ColumnTypeGeoJSON,
	ColumnTypeObject,
	ColumnTypeArray,
	ColumnTypeAny,
}

// ParseColumnType maps a raw type string onto the vocabulary.
// Matching is exact; anything else becomes ColumnTypeUnknown.
func ParseColumnType(s string) ColumnType {
	t := ColumnType(s)
	if slices.Contains(KnownColumnTypes, t) {
		return t
	}
	return ColumnTypeUnknown
}

// Field formats with a fixed meaning.
const (
	FormatBinary  = "binary"
	FormatObject  = "object"
	FormatArray   = "array"
	FormatDefault = "default"
)

// ColumnDescriptor describes one field of a table schema.
// An empty Format means no format was given.
type ColumnDescriptor struct {
	Name string `json:"name" yaml:"name"`
	// RawType keeps the type string exactly as received.
	RawType string `json:"type" yaml:"type"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Type returns the parsed column type.
func (d ColumnDescriptor) Type() ColumnType {
	return ParseColumnType(d.RawType)
}

// UnmarshalJSON accepts a null or missing format.
func (d *ColumnDescriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string  `json:"name"`
		Type   string  `json:"type"`
		Format *string `json:"format"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Name = raw.Name
	d.RawType = raw.Type
	d.Format = ""
	if raw.Format != nil {
		d.Format = strings.TrimSpace(*raw.Format)
	}
	return nil
}

// TableSchema is the ordered list of fields of a data item.
type TableSchema struct {
	Fields []ColumnDescriptor `json:"fields"`
}

// ============================================================================
// Preview Payload
// ============================================================================

// PreviewColumn holds the sampled values of one column; Value[i] is row i.
type PreviewColumn struct {
	Name  string `json:"name"`
	Value []any  `json:"value"`
}

// PreviewPayload is a columnar sample of a larger dataset.
// Rows is the total row count of the dataset, not of the sample.
type PreviewPayload struct {
	Cols []PreviewColumn `json:"cols"`
	Rows *int            `json:"rows,omitempty"`
}

// ============================================================================
// Values
// ============================================================================

// InvalidityType explains why a cell failed coercion.
type InvalidityType string

const (
	InvalidityNone              InvalidityType = ""
	InvalidityInvalidValue      InvalidityType = "INVALID_VALUE"
	InvalidityInvalidDate       InvalidityType = "INVALID_DATE"
	InvalidityInvalidDatetime   InvalidityType = "INVALID_DATETIME"
	InvalidityUnsupportedColumn InvalidityType = "UNSUPPORTED_COLUMN"
)

// Value is the result of coercing one raw cell.
// InvalidityType is set if and only if IsValid is false.
type Value struct {
	Value          any            `json:"value"`
	IsValid        bool           `json:"isValid"`
	InvalidityType InvalidityType `json:"invalidityType,omitempty"`
}

// ValidValue wraps a successfully coerced value.
func ValidValue(v any) Value {
	return Value{Value: v, IsValid: true}
}

// InvalidValue wraps a value that failed coercion. An empty kind is
// recorded as InvalidityInvalidValue so the tag is never missing.
func InvalidValue(v any, kind InvalidityType) Value {
	if kind == InvalidityNone {
		kind = InvalidityInvalidValue
	}
	return Value{Value: v, IsValid: false, InvalidityType: kind}
}

// ============================================================================
// Rows
// ============================================================================

// InvalidFieldInfo records one invalid cell in a row.
type InvalidFieldInfo struct {
	Field          string         `json:"field"`
	InvalidityType InvalidityType `json:"invalidityType"`
}

// Row is one projected preview row. Fields is keyed by camel-cased field name.
type Row struct {
	ID                int                `json:"id"`
	Fields            map[string]any     `json:"-"`
	InvalidFieldsInfo []InvalidFieldInfo `json:"invalidFieldsInfo"`
}

// HasInvalidField reports whether field was recorded as invalid in this row.
func (r *Row) HasInvalidField(field string) bool {
	if r == nil {
		return false
	}
	for _, info := range r.InvalidFieldsInfo {
		if info.Field == field {
			return true
		}
	}
	return false
}

// InvalidityOf returns the recorded invalidity of field, or InvalidityNone.
func (r *Row) InvalidityOf(field string) InvalidityType {
	if r == nil {
		return InvalidityNone
	}
	for _, info := range r.InvalidFieldsInfo {
		if info.Field == field {
			return info.InvalidityType
		}
	}
	return InvalidityNone
}

// MarshalJSON flattens the row into a single object:
// {"id": 0, "<field>": ..., "invalidFieldsInfo": [...]}.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	info := r.InvalidFieldsInfo
	if info == nil {
		info = []InvalidFieldInfo{}
	}
	out["invalidFieldsInfo"] = info
	return json.Marshal(out)
}

// ============================================================================
// Columns and Projection
// ============================================================================

// GridType is the renderer type hint of a column.
type GridType string

const (
	GridTypeString   GridType = "string"
	GridTypeNumber   GridType = "number"
	GridTypeBoolean  GridType = "boolean"
	GridTypeDate     GridType = "date"
	GridTypeDateTime GridType = "dateTime"
)

// ComparatorKind names the comparator family a column sorts with.
type ComparatorKind string

const (
	ComparatorString ComparatorKind = "string"
	ComparatorNumber ComparatorKind = "number"
	ComparatorDate   ComparatorKind = "date"
)

// ColumnDefinition is the grid configuration of one schema field.
type ColumnDefinition struct {
	Field         string         `json:"field"`
	HeaderName    string         `json:"headerName"`
	SourceType    ColumnType     `json:"sourceType"`
	Type          GridType       `json:"type"`
	Comparator    ComparatorKind `json:"comparator"`
	Sortable      bool           `json:"sortable"`
	Filterable    bool           `json:"filterable"`
	Unsupported   bool           `json:"unsupported"`
	MinWidth      int            `json:"minWidth,omitempty"`
	HeaderTooltip string         `json:"headerTooltip,omitempty"`

	// SortComparator orders two cell values of this column.
	SortComparator func(v1, v2 any, row1, row2 *Row) int `json:"-"`
}

// Projection is the grid-ready view of a schema and preview payload.
type Projection struct {
	Columns                       []ColumnDefinition `json:"columns"`
	Rows                          []Row              `json:"rows"`
	IsAtLeastOneColumnUnsupported bool               `json:"isAtLeastOneColumnUnsupported"`
	NumberOfRows                  int                `json:"numberOfRows"`
}

// Column returns the definition for field, or nil.
func (p *Projection) Column(field string) *ColumnDefinition {
	if p == nil {
		return nil
	}
	for i := range p.Columns {
		if p.Columns[i].Field == field {
			return &p.Columns[i]
		}
	}
	return nil
}

// CellDisplay is what a grid cell shows.
type CellDisplay struct {
	Text      string `json:"text"`
	ClassName string `json:"className,omitempty"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// PreviewResult is a projection rendered for one locale.
type PreviewResult struct {
	Projection
	RowsLabel string                   `json:"rowsLabel"`
	Locale    string                   `json:"locale"`
	Cells     []map[string]CellDisplay `json:"cells"`
	// TranslationsGeneration identifies the label set the cells were
	// rendered with.
	TranslationsGeneration uint64 `json:"-"`
}
