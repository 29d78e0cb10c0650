package preview

import "github.com/ekaya-inc/ekaya-preview/pkg/models"

// DateColumnMinWidth is the minimum width of date and datetime columns.
const DateColumnMinWidth = 150

type projectedField struct {
	key  string
	desc models.ColumnDescriptor
}

// Project builds the grid columns and rows for a schema and a preview
// payload. Nil inputs are treated as empty. Preview columns whose name is not
// a schema field are skipped. Rows are indexed densely from 0; a column with
// fewer sampled values than the longest one leaves nil in the missing rows.
func Project(schema *models.TableSchema, payload *models.PreviewPayload) *models.Projection {
	if schema == nil {
		schema = &models.TableSchema{}
	}
	if payload == nil {
		payload = &models.PreviewPayload{}
	}

	proj := &models.Projection{
		Columns: make([]models.ColumnDefinition, 0, len(schema.Fields)),
		Rows:    []models.Row{},
	}
	if payload.Rows != nil {
		proj.NumberOfRows = *payload.Rows
	}

	fieldsByName := make(map[string]projectedField, len(schema.Fields))
	for _, desc := range schema.Fields {
		column := BuildColumn(desc)
		if column.Unsupported {
			proj.IsAtLeastOneColumnUnsupported = true
		}
		proj.Columns = append(proj.Columns, column)
		fieldsByName[desc.Name] = projectedField{key: column.Field, desc: desc}
	}

	rowCount := 0
	for _, col := range payload.Cols {
		if _, ok := fieldsByName[col.Name]; ok && len(col.Value) > rowCount {
			rowCount = len(col.Value)
		}
	}

	rows := make([]models.Row, rowCount)
	for i := range rows {
		rows[i] = models.Row{
			ID:                i,
			Fields:            make(map[string]any, len(fieldsByName)),
			InvalidFieldsInfo: []models.InvalidFieldInfo{},
		}
	}

	for _, col := range payload.Cols {
		field, ok := fieldsByName[col.Name]
		if !ok {
			continue
		}
		for i := range rows {
			var raw any
			if i < len(col.Value) {
				raw = col.Value[i]
			}
			v := GetValue(raw, field.desc)
			rows[i].Fields[field.key] = v.Value
			if !v.IsValid {
				rows[i].InvalidFieldsInfo = append(rows[i].InvalidFieldsInfo, models.InvalidFieldInfo{
					Field:          field.key,
					InvalidityType: v.InvalidityType,
				})
			}
		}
	}

	proj.Rows = rows
	return proj
}

// BuildColumn returns the grid definition of one schema field: base
// attributes merged with the overrides of its type.
func BuildColumn(desc models.ColumnDescriptor) models.ColumnDefinition {
	field := ColumnKey(desc.Name)
	column := models.ColumnDefinition{
		Field:      field,
		HeaderName: desc.Name,
		SourceType: desc.Type(),
		Type:       models.GridTypeString,
		Comparator: models.ComparatorString,
		Sortable:   true,
		Filterable: true,
	}

	if IsUnsupportedColumn(desc) {
		column.Unsupported = true
		column.Sortable = false
		column.Filterable = false
		return column
	}

	switch desc.Type() {
	case models.ColumnTypeNumber, models.ColumnTypeInteger:
		column.Type = models.GridTypeNumber
		column.Comparator = models.ComparatorNumber
	case models.ColumnTypeBoolean:
		column.Type = models.GridTypeBoolean
	case models.ColumnTypeDate:
		column.Type = models.GridTypeDate
		column.Comparator = models.ComparatorDate
		column.MinWidth = DateColumnMinWidth
	case models.ColumnTypeDatetime:
		column.Type = models.GridTypeDateTime
		column.Comparator = models.ComparatorDate
		column.MinWidth = DateColumnMinWidth
	}
	column.SortComparator = ComparatorFor(column.Comparator, field)
	return column
}
