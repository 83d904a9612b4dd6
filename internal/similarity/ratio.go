package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns the normalized Levenshtein similarity of two token windows,
// compared as space-joined strings at rune level. Two empty windows are
// identical.
func Ratio(a, b []string) float64 {
	left := strings.Join(a, " ")
	right := strings.Join(b, " ")
	longest := max(utf8.RuneCountInString(left), utf8.RuneCountInString(right))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(left, right)
	return 1 - float64(dist)/float64(longest)
}

// Score compares two texts over their full token sequences.
func Score(query, candidate string) float64 {
	return Ratio(Tokenize(query), Tokenize(candidate))
}
