package payload

import (
	"strings"
	"unicode"
)

// NormalizeLabel converts a free-form column label to its canonical form:
// all lowercase with each whitespace rune replaced by an underscore.
// Mapping every rune through unicode.IsSpace makes the no-whitespace,
// no-uppercase result hold for any input, not just ASCII spaces. The
// transform is idempotent.
func NormalizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return unicode.ToLower(r)
	}, label)
}

// NormalizeLabels maps NormalizeLabel over a header row, leaving the input
// untouched.
func NormalizeLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = NormalizeLabel(label)
	}
	return out
}

// StripUnitParens removes the enclosing parentheses from a unit
// annotation, preserving internal characters: "(lbs/gal)" becomes
// "lbs/gal".
func StripUnitParens(unit string) string {
	unit = strings.TrimPrefix(unit, "(")
	unit = strings.TrimSuffix(unit, ")")
	return unit
}
