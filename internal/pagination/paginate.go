package pagination

import (
	"strings"
	"unicode/utf8"
)

const defaultColumns = 80

// Config controls how chapter text is cut into pages.
type Config struct {
	LinesPerPage int
	Metrics      TextMetrics
}

// Page is one fixed-capacity slice of a chapter.
type Page struct {
	// Index is the zero-based position of the page within its chapter.
	Index int
	Text  string
	Lines int
}

// Paginate splits text into pages of at most cfg.LinesPerPage wrapped lines.
// It never returns an empty slice.
func Paginate(text string, cfg Config) []Page {
	perPage := cfg.LinesPerPage
	if perPage <= 0 {
		perPage = 1
	}
	lines := Wrap(text, cfg.Metrics)
	if len(lines) == 0 {
		return []Page{{Index: 0}}
	}

	pages := make([]Page, 0, (len(lines)+perPage-1)/perPage)
	for start := 0; start < len(lines); start += perPage {
		end := min(start+perPage, len(lines))
		pages = append(pages, Page{
			Index: len(pages),
			Text:  strings.Join(lines[start:end], "\n"),
			Lines: end - start,
		})
	}
	return pages
}

// Count returns the number of pages Paginate would produce.
func Count(text string, cfg Config) int {
	return len(Paginate(text, cfg))
}

// Wrap breaks text into display lines no wider than metrics.LineWidth().
// Newlines are hard breaks; blank paragraphs produce blank lines. Trailing
// whitespace at the end of the text is ignored.
func Wrap(text string, metrics TextMetrics) []string {
	if metrics == nil {
		metrics = NewCellMetrics(defaultColumns)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, " \t\n\v\f")
	if text == "" {
		return nil
	}

	limit := metrics.LineWidth()
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = wrapParagraph(lines, paragraph, metrics, limit)
	}
	return lines
}

func wrapParagraph(lines []string, paragraph string, metrics TextMetrics, limit float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return append(lines, "")
	}

	current := ""
	for _, word := range words {
		if current != "" {
			candidate := current + " " + word
			if metrics.Width(candidate) <= limit {
				current = candidate
				continue
			}
			lines = append(lines, current)
		}
		for word != "" && metrics.Width(word) > limit {
			head, tail := splitWord(word, metrics, limit)
			lines = append(lines, head)
			word = tail
		}
		current = word
	}
	if current == "" {
		// The last word was consumed by hard breaks.
		return lines
	}
	return append(lines, current)
}

// splitWord returns the longest rune prefix of word that fits in limit, taking
// at least one rune so wrapping always makes progress.
func splitWord(word string, metrics TextMetrics, limit float64) (string, string) {
	cut := 0
	for cut < len(word) {
		_, size := utf8.DecodeRuneInString(word[cut:])
		next := cut + size
		if cut > 0 && metrics.Width(word[:next]) > limit {
			break
		}
		cut = next
	}
	return word[:cut], word[cut:]
}
