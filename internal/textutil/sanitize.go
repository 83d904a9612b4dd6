package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug converts a string to a lowercase token usable as a book identifier.
// Accents are stripped, letters and digits are kept, and runs of anything else
// become a single hyphen. Returns "unknown" for input without letters or
// digits.
func Slug(value string) string {
	value = stripMarks(strings.TrimSpace(value))
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// TitleFromName turns a file or directory name, without extension, into a
// display title: a leading ordering number is removed, separators become
// spaces, and words are title-cased.
func TitleFromName(name string) string {
	cleaned := strings.Builder{}
	prevSpace := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if fields := strings.Fields(title); len(fields) > 1 && isDigits(fields[0]) {
		title = strings.Join(fields[1:], " ")
	}
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
