package preview

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ekaya-inc/ekaya-preview/pkg/jsonutil"
	"github.com/ekaya-inc/ekaya-preview/pkg/models"
)

// MaxStringLength caps every string cell value, in characters.
const MaxStringLength = 10000

// maxDateMillis is the largest epoch offset a browser Date accepts.
const maxDateMillis = 8.64e15

// GetValue coerces one raw cell according to its column descriptor.
// It never panics: malformed input degrades to an invalid Value.
// Nil is always valid and passed through untouched.
func GetValue(raw any, desc models.ColumnDescriptor) models.Value {
	if raw == nil {
		return models.ValidValue(nil)
	}
	if IsUnsupportedColumn(desc) {
		return invalid(raw, models.InvalidityUnsupportedColumn)
	}

	switch desc.Type() {
	case models.ColumnTypeString,
		models.ColumnTypeTime,
		models.ColumnTypeYear,
		models.ColumnTypeYearMonth,
		models.ColumnTypeDuration:
		return models.ValidValue(truncate(jsonutil.Stringify(raw)))
	case models.ColumnTypeInteger:
		return coerceNumber(raw, parseIntPrefix)
	case models.ColumnTypeNumber:
		return coerceNumber(raw, parseFloatPrefix)
	case models.ColumnTypeBoolean:
		if b, ok := raw.(bool); ok {
			return models.ValidValue(b)
		}
		return invalid(raw, models.InvalidityInvalidValue)
	case models.ColumnTypeDate:
		return coerceDate(raw, models.InvalidityInvalidDate)
	case models.ColumnTypeDatetime:
		return coerceDate(raw, models.InvalidityInvalidDatetime)
	case models.ColumnTypeGeopoint:
		return coerceGeopoint(raw, desc.Format)
	}
	return invalid(raw, models.InvalidityInvalidValue)
}

func invalid(raw any, kind models.InvalidityType) models.Value {
	return models.InvalidValue(truncate(jsonutil.Stringify(raw)), kind)
}

func coerceNumber(raw any, parse func(string) (float64, bool)) models.Value {
	if f, ok := jsonutil.FlexibleFloat(raw); ok {
		if isFinite(f) {
			return models.ValidValue(f)
		}
		return invalid(raw, models.InvalidityInvalidValue)
	}
	if s, ok := raw.(string); ok {
		if f, ok := parse(s); ok {
			return models.ValidValue(f)
		}
	}
	return invalid(raw, models.InvalidityInvalidValue)
}

func coerceDate(raw any, parseFailure models.InvalidityType) models.Value {
	_, isString := raw.(string)
	if _, isNumber := jsonutil.FlexibleFloat(raw); !isString && !isNumber {
		return invalid(raw, models.InvalidityInvalidValue)
	}
	if t, ok := ParseDate(raw); ok {
		return models.ValidValue(t)
	}
	return invalid(raw, parseFailure)
}

func coerceGeopoint(raw any, format string) models.Value {
	switch format {
	case models.FormatObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return invalid(raw, models.InvalidityInvalidValue)
		}
		lon, lonOK := jsonutil.FlexibleFloat(obj["lon"])
		lat, latOK := jsonutil.FlexibleFloat(obj["lat"])
		if !lonOK || !latOK {
			return invalid(raw, models.InvalidityInvalidValue)
		}
		return models.ValidValue(jsonutil.FormatNumber(lon) + ", " + jsonutil.FormatNumber(lat))
	case "", models.FormatDefault:
		if s, ok := raw.(string); ok {
			return models.ValidValue(truncate(s))
		}
	}
	return invalid(raw, models.InvalidityInvalidValue)
}

// truncate cuts s to MaxStringLength characters.
func truncate(s string) string {
	if len(s) <= MaxStringLength || utf8.RuneCountInString(s) <= MaxStringLength {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxStringLength {
			return s[:i]
		}
		n++
	}
	return s
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// parseIntPrefix reads the longest integer prefix of s after leading
// whitespace: optional sign, then decimal digits or 0x-prefixed hex digits.
func parseIntPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var f float64
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		digits := leadingRun(s[2:], isHexDigit)
		if digits == "" {
			return 0, false
		}
		for _, c := range digits {
			f = f*16 + float64(hexValue(byte(c)))
		}
	} else {
		digits := leadingRun(s, isDigit)
		if digits == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0, false
		}
		f = v
	}

	if !isFinite(f) {
		return 0, false
	}
	if neg && f != 0 {
		f = -f
	}
	return f, true
}

// parseFloatPrefix reads the longest decimal literal prefix of s after
// leading whitespace: sign, digits, optional fraction, optional exponent.
// Non-finite results are rejected.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	intDigits := len(leadingRun(s[end:], isDigit))
	end += intDigits
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = len(leadingRun(s[end+1:], isDigit))
		if intDigits > 0 || fracDigits > 0 {
			end += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if n := len(leadingRun(s[exp:], isDigit)); n > 0 {
			end = exp + n
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	if f == 0 {
		// normalise negative zero
		f = 0
	}
	return f, true
}

func leadingRun(s string, pred func(byte) bool) string {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// dateLayouts are tried in order. Layouts without a zone parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// ParseDate converts a string or an epoch-milliseconds number into a time.
// time.Time values are accepted as-is.
func ParseDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	ms, ok := jsonutil.FlexibleFloat(raw)
	if !ok || !isFinite(ms) || math.Abs(ms) > maxDateMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Trunc(ms))).UTC(), true
}
