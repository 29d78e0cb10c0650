package preview

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-preview/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
)

func validRow() *models.Row {
	return &models.Row{InvalidFieldsInfo: []models.InvalidFieldInfo{}}
}

func invalidRow(field string, kind models.InvalidityType) *models.Row {
	return &models.Row{InvalidFieldsInfo: []models.InvalidFieldInfo{{Field: field, InvalidityType: kind}}}
}

func TestComparators_InvalidSortsFirst(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		comparator Comparator
		invalid    any
		valid      any
		kind       models.InvalidityType
	}{
		{"string", StringComparator("f"), "zzz", "aaa", models.InvalidityInvalidValue},
		{"number", NumberComparator("f"), "oops", 1.0, models.InvalidityInvalidValue},
		{"date", DateComparator("f"), "not-a-date", day, models.InvalidityInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowA := invalidRow("f", tt.kind)
			rowB := validRow()

			assert.Less(t, tt.comparator(tt.invalid, tt.valid, rowA, rowB), 0)
			assert.Greater(t, tt.comparator(tt.valid, tt.invalid, rowB, rowA), 0)
			assert.Equal(t, 0, tt.comparator(tt.invalid, "other", rowA, invalidRow("f", tt.kind)))
		})
	}
}

func TestComparators_InvalidOtherFieldIgnored(t *testing.T) {
	c := StringComparator("name")
	rowA := invalidRow("age", models.InvalidityInvalidValue)
	assert.Greater(t, c("b", "a", rowA, validRow()), 0)
}

func TestNumberComparator_OnlyInvalidValueCounts(t *testing.T) {
	c := NumberComparator("n")
	rowA := invalidRow("n", models.InvalidityUnsupportedColumn)
	assert.Greater(t, c(5.0, 1.0, rowA, validRow()), 0)
}

func TestStringComparator_Natural(t *testing.T) {
	c := StringComparator("f")
	row := validRow()

	assert.Less(t, c("item2", "item10", row, row), 0)
	assert.Greater(t, c("item10", "item2", row, row), 0)
	assert.Equal(t, 0, c("same", "same", row, row))
	assert.Less(t, c("apple", "Banana", row, row), 0)
	assert.Less(t, c(nil, "a", row, row), 0)
	assert.Greater(t, c("a", nil, row, row), 0)
	assert.Equal(t, 0, c(nil, nil, row, row))
	assert.Less(t, c(2.0, 10.0, row, row), 0)
	assert.Less(t, c(true, "zebra", row, row), 0)
}

func TestNumberComparator_Natural(t *testing.T) {
	c := NumberComparator("f")
	row := validRow()

	assert.Less(t, c(2.0, 10.0, row, row), 0)
	assert.Greater(t, c(-1.0, -2.0, row, row), 0)
	assert.Equal(t, 0, c(3.0, 3, row, row))
	assert.Less(t, c(nil, -100.0, row, row), 0)
	assert.Equal(t, 0, c(nil, nil, row, row))
}

func TestDateComparator_Natural(t *testing.T) {
	c := DateComparator("f")
	row := validRow()
	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Less(t, c(early, late, row, row), 0)
	assert.Greater(t, c(late, early, row, row), 0)
	assert.Equal(t, 0, c(early, early, row, row))
	assert.Less(t, c("2020-01-01", late, row, row), 0)
	assert.Less(t, c(nil, early, row, row), 0)
	assert.Equal(t, 0, c(nil, nil, row, row))
}

func TestDateComparator_UnparseableValueTier(t *testing.T) {
	c := DateComparator("f")
	row := validRow()
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// Neither row records the field as invalid, but the value is not a date.
	assert.Less(t, c("garbage", day, row, row), 0)
	assert.Greater(t, c(day, "garbage", row, row), 0)
	assert.Equal(t, 0, c("garbage", true, row, row))
	// nil is not a failed date; it sorts by the nil-first rule after the tier.
	assert.Greater(t, c(nil, "garbage", row, row), 0)
}

func TestComparatorFor(t *testing.T) {
	row := validRow()
	assert.Less(t, ComparatorFor(models.ComparatorNumber, "f")(2.0, 10.0, row, row), 0)
	assert.Less(t, ComparatorFor(models.ComparatorString, "f")("item2", "item10", row, row), 0)
	assert.Less(t, ComparatorFor(models.ComparatorDate, "f")("2020-01-01", "2021-01-01", row, row), 0)
	assert.NotNil(t, ComparatorFor("", "f"))
}

func sortFixture() *models.Projection {
	rows := 5
	return Project(
		&models.TableSchema{Fields: []models.ColumnDescriptor{
			{Name: "Name", RawType: "string"},
			{Name: "Score", RawType: "number"},
			{Name: "Tags", RawType: "array"},
		}},
		&models.PreviewPayload{
			Cols: []models.PreviewColumn{
				{Name: "Name", Value: []any{"item10", "item2", "item1", nil, "item3"}},
				{Name: "Score", Value: []any{3.0, "bad", 1.0, 2.0, "worse"}},
				{Name: "Tags", Value: []any{[]any{"a"}, nil, nil, nil, nil}},
			},
			Rows: &rows,
		},
	)
}

func rowIDs(proj *models.Projection) []int {
	ids := make([]int, len(proj.Rows))
	for i, r := range proj.Rows {
		ids[i] = r.ID
	}
	return ids
}

func TestSortRows_Ascending(t *testing.T) {
	proj := sortFixture()
	require.NoError(t, SortRows(proj, "name", false))
	assert.Equal(t, []int{3, 2, 1, 4, 0}, rowIDs(proj))

	proj = sortFixture()
	require.NoError(t, SortRows(proj, "score", false))
	// Invalid rows first in original order, then ascending values.
	assert.Equal(t, []int{1, 4, 2, 3, 0}, rowIDs(proj))
}

func TestSortRows_Descending(t *testing.T) {
	proj := sortFixture()
	require.NoError(t, SortRows(proj, "score", true))
	assert.Equal(t, []int{0, 3, 2, 1, 4}, rowIDs(proj))
}

func TestSortRows_Errors(t *testing.T) {
	proj := sortFixture()

	err := SortRows(proj, "missing", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownField))

	err = SortRows(proj, "tags", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrColumnNotSortable))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, rowIDs(proj), "failed sort must not reorder rows")
}
