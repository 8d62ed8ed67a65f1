package categorizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// RepairEncoding undoes UTF-8 text that was decoded one byte per character. Each rune must fit
// in a single Latin-1 byte and the resulting bytes must be valid UTF-8; otherwise the original
// text is returned with ok=false.
func RepairEncoding(text string) (string, bool) {
	if text == "" || !utf8.ValidString(text) {
		return text, false
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return text, false
	}
	if !utf8.ValidString(raw) {
		return text, false
	}
	return raw, true
}

// FixEncoding returns the repaired text, or the original when no repair applies.
func FixEncoding(text string) string {
	fixed, _ := RepairEncoding(text)
	return fixed
}

// NormalizeText performs Unicode normalization and trims whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	// Collapse internal control characters except newlines.
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}
