package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const Ellipsis = "..."

// Truncate shortens text to at most limit runes, ellipsis included.
// Text that already fits is returned unchanged. Otherwise it is cut at the
// last whitespace that leaves room for the ellipsis, or hard-cut when the
// kept part has no whitespace. Truncate(Truncate(t, l), l) == Truncate(t, l).
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	budget := max(limit-utf8.RuneCountInString(Ellipsis), 0)

	cut := len(text)
	lastSpace := -1
	count := 0

	for i, r := range text {
		if count == budget {
			cut = i
			break
		}

		if unicode.IsSpace(r) {
			lastSpace = i
		}

		count++
	}

	// Whitespace right at the cut point is a word boundary too
	if r, _ := utf8.DecodeRuneInString(text[cut:]); cut < len(text) && unicode.IsSpace(r) {
		lastSpace = cut
	}

	truncated := text[:cut]

	if lastSpace >= 0 {
		truncated = strings.TrimRightFunc(text[:lastSpace], unicode.IsSpace)
	}

	return truncated + Ellipsis
}
