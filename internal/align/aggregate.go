package align

import (
	"fmt"

	"folio/internal/services"
)

// tally accumulates chapter results and keeps the single best match.
type tally struct {
	total    int
	received int
	seen     []bool
	failed   int
	best     *SimilarityResult
}

func newTally(total int) *tally {
	total = max(total, 0)
	return &tally{total: total, seen: make([]bool, total)}
}

// drain receives until every chapter has reported or the channel closes.
func (t *tally) drain(results <-chan ChapterResult) {
	for t.received < t.total {
		result, ok := <-results
		if !ok {
			return
		}
		t.add(result)
	}
}

func (t *tally) add(result ChapterResult) {
	i := int(result.Chapter)
	if i < 0 || i >= t.total || t.seen[i] {
		return
	}
	t.seen[i] = true
	t.received++
	if result.Err != nil {
		t.failed++
	}
	if result.Match == nil {
		return
	}
	if t.best == nil || better(*result.Match, *t.best) {
		match := *result.Match
		t.best = &match
	}
}

// better orders matches by score, then lowest chapter, then lowest page.
func better(a, b SimilarityResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Chapter != b.Chapter {
		return a.Chapter < b.Chapter
	}
	return a.LocalPage < b.LocalPage
}

// outcome resolves the tally. Chapters that never reported are treated as
// single empty pages so cumulative numbering stays defined.
func (t *tally) outcome(counts *PageCounts) Outcome {
	if t.best == nil {
		return Outcome{
			Status: StatusNotFound,
			Failed: t.failed,
			Cause:  services.Wrap(services.ErrNoMatch, "aggregate", "select best page", fmt.Sprintf("no page in %d chapters reached the threshold", t.total), nil),
		}
	}
	snapshot, complete := counts.Snapshot()
	if !complete {
		counts.fillMissing(1)
		snapshot, _ = counts.Snapshot()
	}
	page := t.best.LocalPage
	for _, n := range snapshot[:t.best.Chapter] {
		page += n
	}
	return Outcome{
		Status:    StatusFound,
		Page:      page,
		Chapter:   t.best.Chapter,
		LocalPage: t.best.LocalPage,
		Score:     t.best.Score,
		Failed:    t.failed,
	}
}

// Aggregate consumes exactly total results, selects the best match and
// converts it to a cumulative page number. A channel that closes early is
// treated as if the missing chapters reported no match.
func Aggregate(results <-chan ChapterResult, counts *PageCounts, total int) Outcome {
	t := newTally(total)
	t.drain(results)
	return t.outcome(counts)
}

// Locate maps a cumulative page number back to its chapter and chapter-local
// page.
func Locate(counts []int, page int) (ChapterID, int, error) {
	if page < 0 {
		return 0, 0, services.Wrap(services.ErrNotFound, "locate", "resolve page", fmt.Sprintf("page %d is negative", page), nil)
	}
	remaining := page
	for chapter, n := range counts {
		if remaining < n {
			return ChapterID(chapter), remaining, nil
		}
		remaining -= n
	}
	return 0, 0, services.Wrap(services.ErrNotFound, "locate", "resolve page", fmt.Sprintf("page %d is past the last page (%d pages)", page, TotalPages(counts)), nil)
}

// TotalPages sums chapter page counts.
func TotalPages(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
