package preview

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldKey derives the row key of a column from its raw name by camel-casing
// it: "Date of birth" -> "dateOfBirth", "HTTP status" -> "httpStatus",
// "user_ID" -> "userId", "col 2" -> "col2".
func FieldKey(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}

	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Row keys owned by models.Row itself.
const (
	rowKeyID          = "id"
	rowKeyInvalidInfo = "invalidFieldsInfo"
	reservedKeySuffix = "_"
)

// ColumnKey is the row key of a column. It is FieldKey, except that names
// which camel-case to a key the row itself carries ("ID", "invalid fields
// info") get a trailing underscore. FieldKey never emits one, so the
// suffixed key cannot collide with another column.
func ColumnKey(name string) string {
	key := FieldKey(name)
	if key == rowKeyID || key == rowKeyInvalidInfo {
		return key + reservedKeySuffix
	}
	return key
}

type runeClass int

const (
	classOther runeClass = iota
	classLower
	classUpper
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLetter(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	}
	return classOther
}

// splitWords breaks name at punctuation, spaces, lower-to-upper transitions,
// the end of an acronym ("HTTPServer" -> "HTTP", "Server") and letter/digit
// transitions.
func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		c := classify(r)
		if c == classOther {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}

		prev := classify(runes[i-1])
		switch {
		case prev == classLower && c == classUpper:
			flush(i)
			start = i
		case prev == classUpper && c == classUpper &&
			i+1 < len(runes) && classify(runes[i+1]) == classLower:
			flush(i)
			start = i
		case (prev == classDigit) != (c == classDigit):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}
