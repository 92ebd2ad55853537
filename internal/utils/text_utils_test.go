package utils

import "testing"

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{"within limit", "short", 20, "short"},
		{"exact limit", "12345", 5, "12345"},
		{"over limit", "1234567890", 8, "12345..."},
		{"multibyte runes", "äöüäöüäöü", 6, "äöü..."},
		{"zero max disables", "anything", 0, "anything"},
		{"tiny max", "abcdef", 2, "a..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateCell(tt.value, tt.max); got != tt.want {
				t.Errorf("TruncateCell(%q, %d) = %q, want %q", tt.value, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"valid passthrough", "plain text", "plain text"},
		{"valid multibyte", "naïve café", "naïve café"},
		{"invalid byte dropped", "bad\xffbyte", "badbyte"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUTF8(tt.value); got != tt.want {
				t.Errorf("SanitizeUTF8(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
