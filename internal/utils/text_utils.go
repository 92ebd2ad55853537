package utils

import (
	"strings"
	"unicode/utf8"
)

// TruncateCell shortens a cell value to at most max runes for table display,
// replacing the tail with "..." when it was cut. Values within the limit are
// returned unchanged.
func TruncateCell(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	cut := max - 3
	if cut < 1 {
		cut = 1
	}
	return string(runes[:cut]) + "..."
}

// SanitizeUTF8 drops invalid UTF-8 sequences from spreadsheet text so it can
// be rendered and logged safely.
func SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
