package title

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ToHalfWidth folds full-width ASCII variants (digits, letters, parentheses,
// the ideographic space) to their half-width forms so that "１" and "（１）"
// compare equal to "1" and "(1)". Half-width katakana widens to full-width
// as a side effect of the canonical fold, which is what comparison wants.
func ToHalfWidth(s string) string {
	return width.Fold.String(s)
}

// NormalizeWhitespace collapses every run of Unicode whitespace to a single
// ASCII space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Comparable produces the canonical comparison form of a title fragment:
// width-folded, lower-cased, all whitespace removed.
func Comparable(s string) string {
	folded := strings.ToLower(ToHalfWidth(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SeriesNameOccursIn reports whether the series key occurs inside the title
// under whitespace- and width-insensitive containment. This is deliberately
// containment, not equality: vendor titles append volume markers, label
// names, and subtitles around the series name.
func SeriesNameOccursIn(title, seriesKey string) bool {
	key := Comparable(seriesKey)
	if key == "" {
		return false
	}
	return strings.Contains(Comparable(title), key)
}

// SeriesNameIndex locates the series key inside the width-folded,
// lower-cased title and returns the byte range of the match there. Unlike
// SeriesNameOccursIn it does not ignore whitespace, because callers need
// positions inside the folded title to inspect surrounding text. Returns
// (-1, -1) when the key is absent.
func SeriesNameIndex(title, seriesKey string) (start, end int) {
	folded := strings.ToLower(ToHalfWidth(title))
	key := strings.ToLower(ToHalfWidth(strings.TrimSpace(seriesKey)))
	if key == "" {
		return -1, -1
	}
	idx := strings.Index(folded, key)
	if idx < 0 {
		return -1, -1
	}
	return idx, idx + len(key)
}

// FoldedLower is the folded, lower-cased view of a title that SeriesNameIndex
// and FindVolumeMarker positions refer to.
func FoldedLower(s string) string {
	return strings.ToLower(ToHalfWidth(s))
}
