// Package i18n holds the localized labels shown for invalid and unsupported
// preview cells, loaded from a YAML bundle keyed by BCP 47 locale.
package i18n

import (
	"fmt"

	"github.com/jinzhu/inflection"
)

// Translations are the labels of one locale.
type Translations struct {
	InvalidValue    string `yaml:"invalid_value" json:"invalidValue"`
	InvalidDate     string `yaml:"invalid_date" json:"invalidDate"`
	InvalidDatetime string `yaml:"invalid_datetime" json:"invalidDatetime"`
	Unsupported     string `yaml:"unsupported" json:"unsupported"`
	// Row is the singular noun used in the row count label.
	Row string `yaml:"row" json:"row"`
	// Rows overrides the plural noun. When empty it is inflected from Row.
	Rows string `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// DefaultTranslations returns the built-in English labels.
func DefaultTranslations() Translations {
	return Translations{
		InvalidValue:    "Invalid value",
		InvalidDate:     "Invalid date",
		InvalidDatetime: "Invalid datetime",
		Unsupported:     "Unsupported",
		Row:             "row",
	}
}

// withDefaults fills empty labels from the English defaults.
func (t Translations) withDefaults() Translations {
	d := DefaultTranslations()
	if t.InvalidValue == "" {
		t.InvalidValue = d.InvalidValue
	}
	if t.InvalidDate == "" {
		t.InvalidDate = d.InvalidDate
	}
	if t.InvalidDatetime == "" {
		t.InvalidDatetime = d.InvalidDatetime
	}
	if t.Unsupported == "" {
		t.Unsupported = d.Unsupported
	}
	if t.Row == "" {
		t.Row = d.Row
		t.Rows = ""
	}
	return t
}

// RowsLabel renders the dataset size, e.g. "1 row" or "1200 rows".
func (t Translations) RowsLabel(n int) string {
	noun := t.Row
	if n != 1 {
		noun = t.Rows
		if noun == "" {
			noun = inflection.Plural(t.Row)
		}
	}
	return fmt.Sprintf("%d %s", n, noun)
}
