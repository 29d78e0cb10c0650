// Package preview turns a table schema and a columnar preview sample into
// grid-ready rows and column definitions. Every function here is pure: the
// same schema and payload always yield the same projection.
package preview

import "github.com/ekaya-inc/ekaya-preview/pkg/models"

// IsUnsupportedColumn reports whether a column can never be rendered.
// The decision depends on the type and format only.
func IsUnsupportedColumn(desc models.ColumnDescriptor) bool {
	switch desc.Type() {
	case models.ColumnTypeString:
		return desc.Format == models.FormatBinary
	case models.ColumnTypeNumber,
		models.ColumnTypeInteger,
		models.ColumnTypeBoolean,
		models.ColumnTypeDate,
		models.ColumnTypeTime,
		models.ColumnTypeDatetime,
		models.ColumnTypeYear,
		models.ColumnTypeYearMonth,
		models.ColumnTypeDuration:
		return false
	case models.ColumnTypeGeopoint:
		return desc.Format == models.FormatArray
	case models.ColumnTypeObject,
		models.ColumnTypeArray,
		models.ColumnTypeGeoJSON,
		models.ColumnTypeAny,
		models.ColumnTypeUnknown:
		return true
	}
	return true
}
