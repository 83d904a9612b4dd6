package similarity

const (
	DefaultWindow    = 10
	DefaultStep      = 10
	DefaultThreshold = 0.8
)

// Matcher performs progressive window matching. The zero value uses the
// package defaults.
type Matcher struct {
	// Window is the number of leading tokens used for the initial comparison.
	Window int
	// Step is how many tokens each widening adds.
	Step int
	// Threshold is the minimum initial score for a page to be considered.
	Threshold float64
}

// Query is a tokenized OCR query. It is read-only once prepared and may be
// shared by concurrent scans.
type Query struct {
	tokens []string
}

// Len reports the number of tokens in the query.
func (q Query) Len() int {
	return len(q.tokens)
}

// Tokens returns a copy of the query tokens.
func (q Query) Tokens() []string {
	return append([]string(nil), q.tokens...)
}

// Prepare tokenizes a query once for reuse across many pages.
func (m Matcher) Prepare(query string) Query {
	return Query{tokens: Tokenize(query)}
}

// ProgressiveMatch scores candidate against query. Each side contributes its
// own leading tokens, so a page shorter than the query is penalized for the
// words it lacks. It reports false when the initial window scores below the
// threshold or either text has no tokens; otherwise it returns the score of
// the widest window compared.
func (m Matcher) ProgressiveMatch(query, candidate string) (float64, bool) {
	return m.Match(m.Prepare(query), Tokenize(candidate))
}

// Match is ProgressiveMatch over a prepared query and a tokenized page.
// Widening stops once either side is exhausted.
func (m Matcher) Match(q Query, page []string) (float64, bool) {
	if len(q.tokens) == 0 || len(page) == 0 {
		return 0, false
	}

	n := m.window()
	score := windowRatio(q.tokens, page, n)
	if score < m.threshold() {
		return 0, false
	}
	for n < len(q.tokens) && n < len(page) {
		n += m.step()
		score = windowRatio(q.tokens, page, n)
	}
	return score, true
}

func windowRatio(query, page []string, n int) float64 {
	return Ratio(query[:min(n, len(query))], page[:min(n, len(page))])
}

// MinScore is the threshold the matcher applies.
func (m Matcher) MinScore() float64 {
	return m.threshold()
}

func (m Matcher) window() int {
	if m.Window > 0 {
		return m.Window
	}
	return DefaultWindow
}

func (m Matcher) step() int {
	if m.Step > 0 {
		return m.Step
	}
	return DefaultStep
}

func (m Matcher) threshold() float64 {
	if m.Threshold > 0 {
		return m.Threshold
	}
	return DefaultThreshold
}

// DefaultMatcher returns a matcher with the package defaults.
func DefaultMatcher() Matcher {
	return Matcher{Window: DefaultWindow, Step: DefaultStep, Threshold: DefaultThreshold}
}
