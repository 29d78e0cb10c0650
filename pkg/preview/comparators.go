package preview

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ekaya-inc/ekaya-preview/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-preview/pkg/jsonutil"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
)

// Comparator orders two cell values of one column. Rows carry the
// invalidity metadata the cell values themselves have lost.
//
// Invalid cells sort before valid ones so malformed rows surface at the top
// of an ascending sort; two invalid cells tie.
type Comparator func(v1, v2 any, row1, row2 *models.Row) int

// StringComparator compares cells with a numeric-aware collation
// ("item2" < "item10"). The returned comparator is not safe for concurrent use.
func StringComparator(field string) Comparator {
	col := collate.New(language.Und, collate.Numeric)
	return func(v1, v2 any, row1, row2 *models.Row) int {
		if c, ok := compareValidity(row1.HasInvalidField(field), row2.HasInvalidField(field)); ok {
			return c
		}
		return compareStringOrNumber(col, v1, v2)
	}
}

// NumberComparator compares numeric cells. Only INVALID_VALUE entries count
// as invalid here, that being the only failure a numeric column records.
func NumberComparator(field string) Comparator {
	return func(v1, v2 any, row1, row2 *models.Row) int {
		invalid1 := row1.InvalidityOf(field) == models.InvalidityInvalidValue
		invalid2 := row2.InvalidityOf(field) == models.InvalidityInvalidValue
		if c, ok := compareValidity(invalid1, invalid2); ok {
			return c
		}
		return compareNumbers(v1, v2)
	}
}

// DateComparator compares date and datetime cells. After the row-level
// check, any non-nil value that does not read as a date is treated as
// invalid as well.
func DateComparator(field string) Comparator {
	return func(v1, v2 any, row1, row2 *models.Row) int {
		if c, ok := compareValidity(row1.HasInvalidField(field), row2.HasInvalidField(field)); ok {
			return c
		}

		t1, ok1 := ParseDate(v1)
		t2, ok2 := ParseDate(v2)
		if c, ok := compareValidity(v1 != nil && !ok1, v2 != nil && !ok2); ok {
			return c
		}
		return compareDates(v1 == nil, v2 == nil, t1, t2)
	}
}

// ComparatorFor returns the comparator of the given family.
func ComparatorFor(kind models.ComparatorKind, field string) Comparator {
	switch kind {
	case models.ComparatorNumber:
		return NumberComparator(field)
	case models.ComparatorDate:
		return DateComparator(field)
	default:
		return StringComparator(field)
	}
}

// SortRows stably sorts the projection's rows in place by field.
func SortRows(proj *models.Projection, field string, descending bool) error {
	column := proj.Column(field)
	if column == nil {
		return fmt.Errorf("sort by %q: %w", field, apperrors.ErrUnknownField)
	}
	if !column.Sortable || column.SortComparator == nil {
		return fmt.Errorf("sort by %q: %w", field, apperrors.ErrColumnNotSortable)
	}

	compare := column.SortComparator
	slices.SortStableFunc(proj.Rows, func(a, b models.Row) int {
		c := compare(a.Fields[field], b.Fields[field], &a, &b)
		if descending {
			return -c
		}
		return c
	})
	return nil
}

// compareValidity decides the order when at least one side is invalid.
func compareValidity(invalid1, invalid2 bool) (int, bool) {
	switch {
	case invalid1 && invalid2:
		return 0, true
	case invalid1:
		return -1, true
	case invalid2:
		return 1, true
	}
	return 0, false
}

// compareNil orders nil before non-nil.
func compareNil(nil1, nil2 bool) (int, bool) {
	switch {
	case nil1 && nil2:
		return 0, true
	case nil1:
		return -1, true
	case nil2:
		return 1, true
	}
	return 0, false
}

func compareStringOrNumber(col *collate.Collator, v1, v2 any) int {
	if c, ok := compareNil(v1 == nil, v2 == nil); ok {
		return c
	}
	s1, isStr1 := v1.(string)
	s2, isStr2 := v2.(string)
	if isStr1 && isStr2 {
		return col.CompareString(s1, s2)
	}
	f1, isNum1 := jsonutil.FlexibleFloat(v1)
	f2, isNum2 := jsonutil.FlexibleFloat(v2)
	if isNum1 && isNum2 {
		return cmp.Compare(f1, f2)
	}
	return col.CompareString(jsonutil.Stringify(v1), jsonutil.Stringify(v2))
}

func compareNumbers(v1, v2 any) int {
	if c, ok := compareNil(v1 == nil, v2 == nil); ok {
		return c
	}
	f1, ok1 := jsonutil.FlexibleFloat(v1)
	f2, ok2 := jsonutil.FlexibleFloat(v2)
	if ok1 && ok2 {
		return cmp.Compare(f1, f2)
	}
	return cmp.Compare(jsonutil.Stringify(v1), jsonutil.Stringify(v2))
}

func compareDates(nil1, nil2 bool, t1, t2 time.Time) int {
	if c, ok := compareNil(nil1, nil2); ok {
		return c
	}
	return t1.Compare(t2)
}
