package logging

import "unicode/utf8"

// MaxValueLogLength is the maximum length of a user-supplied value to log
const MaxValueLogLength = 100

// TruncateString truncates a string to maxLen characters and adds ellipsis if needed.
// Multi-byte characters are never split.
func TruncateString(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// SanitizeValue prepares a user-supplied value (field name, sort key,
// locale header) for a log field.
func SanitizeValue(s string) string {
	return TruncateString(s, MaxValueLogLength)
}
