package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips combining marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// FoldLabel reduces a label to the ASCII repertoire of the overlay font.
// Diacritics are stripped first; any rune still outside printable ASCII
// becomes '?' so the drawn text never has missing glyphs.
func FoldLabel(label string) string {
	label = removeDiacritics(label)

	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if r < 0x20 || r > 0x7e {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}
