package logging

import (
	"strings"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "string shorter than max",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "string exactly at max",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "string longer than max",
			input:    "hello world",
			maxLen:   5,
			expected: "hello...",
		},
		{
			name:     "truncate to zero",
			input:    "hello",
			maxLen:   0,
			expected: "...",
		},
		{
			name:     "negative max treated as zero",
			input:    "hello",
			maxLen:   -3,
			expected: "...",
		},
		{
			name:     "multi-byte characters are not split",
			input:    "žluťoučký kůň",
			maxLen:   4,
			expected: "žluť...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("TruncateString() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSanitizeValue(t *testing.T) {
	short := "birthDate"
	if got := SanitizeValue(short); got != short {
		t.Errorf("SanitizeValue(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("a", MaxValueLogLength+1)
	want := strings.Repeat("a", MaxValueLogLength) + "..."
	if got := SanitizeValue(long); got != want {
		t.Errorf("SanitizeValue(long) = %q, want %q", got, want)
	}
}
