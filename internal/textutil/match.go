// Package textutil provides the substring matching used to filter
// visible images and layers.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matches reports whether text matches filter. An empty filter matches
// everything. The filter is split into words on commas and spaces;
// text matches if any word is contained in it. Comparison is
// case-insensitive using Unicode case folding.
func Matches(text, filter string) bool {
	if filter == "" {
		return true
	}

	foldedText := fold(text)
	words := strings.FieldsFunc(fold(filter), func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(words) == 0 {
		return true
	}

	for _, word := range words {
		if strings.Contains(foldedText, word) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}
