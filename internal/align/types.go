package align

import (
	"context"
	"sync"
)

// ChapterID indexes a chapter within a book, starting at zero.
type ChapterID int

// ChapterSource supplies chapter text for a book.
type ChapterSource interface {
	ChapterCount(ctx context.Context, bookID string) (int, error)
	ChapterText(ctx context.Context, bookID string, chapter int) (string, error)
}

// SimilarityResult is the best page found within one chapter.
type SimilarityResult struct {
	Chapter   ChapterID
	LocalPage int
	Score     float64
}

// ChapterResult is what a scan task reports for its chapter. Match is nil when
// no page reached the threshold or the task failed, in which case Err says why.
type ChapterResult struct {
	Chapter ChapterID
	Match   *SimilarityResult
	Err     error
}

// Status is the state of an alignment outcome.
type Status int

const (
	StatusPending Status = iota
	StatusFound
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the answer to one alignment request. Page, Chapter, LocalPage and
// Score are meaningful only when Status is StatusFound; Cause explains a
// StatusNotFound.
type Outcome struct {
	Status    Status
	Page      int
	Chapter   ChapterID
	LocalPage int
	Score     float64

	// Failed counts chapters whose scan ended in an error.
	Failed int
	Cause  error
}

// Found reports whether a page was located.
func (o Outcome) Found() bool {
	return o.Status == StatusFound
}

// PageCounts holds the page count of every chapter of one request. Each slot
// is written once by the task that owns the chapter; later writes are ignored.
type PageCounts struct {
	mu     sync.Mutex
	counts []int
	set    []bool
	filled int
}

// NewPageCounts allocates slots for n chapters.
func NewPageCounts(n int) *PageCounts {
	n = max(n, 0)
	return &PageCounts{counts: make([]int, n), set: make([]bool, n)}
}

// PageCountsOf returns fully populated counts, mainly for inverse lookups.
func PageCountsOf(counts ...int) *PageCounts {
	pc := NewPageCounts(len(counts))
	for i, n := range counts {
		pc.Set(ChapterID(i), n)
	}
	return pc
}

// Set records the page count of a chapter. It reports false if the chapter is
// out of range or was already recorded.
func (p *PageCounts) Set(chapter ChapterID, pages int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := int(chapter)
	if i < 0 || i >= len(p.counts) || p.set[i] {
		return false
	}
	p.counts[i] = pages
	p.set[i] = true
	p.filled++
	return true
}

// Len is the number of chapter slots.
func (p *PageCounts) Len() int {
	return len(p.counts)
}

// Complete reports whether every chapter has a recorded count.
func (p *PageCounts) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filled == len(p.counts)
}

// Snapshot copies the counts and reports whether all of them were recorded.
func (p *PageCounts) Snapshot() ([]int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.counts))
	copy(out, p.counts)
	return out, p.filled == len(p.counts)
}

// fillMissing records pages for every chapter still unset.
func (p *PageCounts) fillMissing(pages int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.counts {
		if !p.set[i] {
			p.counts[i] = pages
			p.set[i] = true
			p.filled++
		}
	}
}
