package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into case-folded whitespace-delimited tokens. Tokens
// made only of punctuation are dropped.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// Casers carry state and must not be shared between goroutines.
	folded := cases.Fold().String(norm.NFKC.String(text))
	raw := strings.Fields(folded)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimFunc(token, unicode.IsPunct)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
