package align

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"folio/internal/pagination"
	"folio/internal/services"
	"folio/internal/similarity"
)

func collect(t *testing.T, results <-chan ChapterResult, want int) []ChapterResult {
	t.Helper()
	out := make([]ChapterResult, 0, want)
	for r := range results {
		out = append(out, r)
	}
	if len(out) != want {
		t.Fatalf("received %d results, want %d", len(out), want)
	}
	return out
}

func byChapter(results []ChapterResult) map[ChapterID]ChapterResult {
	m := make(map[ChapterID]ChapterResult, len(results))
	for _, r := range results {
		m[r.Chapter] = r
	}
	return m
}

// syntheticBook builds chapters whose lines are distinct sentences.
func syntheticBook(chapters, lines int) []string {
	animals := []string{"heron", "badger", "otter", "lynx", "marten", "stoat", "vole", "wren", "ibis", "newt", "pike", "crane"}
	verbs := []string{"crossed", "watched", "followed", "circled", "avoided", "found", "ignored", "chased"}
	places := []string{"the river", "a hedge", "the old mill", "the marsh", "a quarry", "the orchard", "the ferry", "a barn"}
	book := make([]string, chapters)
	for c := range book {
		var b strings.Builder
		for l := 0; l < lines; l++ {
			fmt.Fprintf(&b, "In year %d the %s %s %s while the %s %s %s.\n",
				1800+c*37+l,
				animals[(c+l)%len(animals)], verbs[(c*3+l)%len(verbs)], places[(c+2*l)%len(places)],
				animals[(c*5+l*7)%len(animals)], verbs[(l*5+c)%len(verbs)], places[(l*3+c*2)%len(places)])
		}
		book[c] = b.String()
	}
	return book
}

func TestScannerEmitsOneResultPerChapter(t *testing.T) {
	source := newMemorySource("Once upon a time", "", "the end")
	scanner := &Scanner{Source: source, Pagination: pagination.Config{LinesPerPage: 5}, Matcher: similarity.DefaultMatcher(), Workers: 2}
	counts := NewPageCounts(3)
	query := scanner.Matcher.Prepare("once upon a time")

	results := byChapter(collect(t, scanner.Scan(context.Background(), "tale", query, 3, counts), 3))
	if m := results[0].Match; m == nil || m.LocalPage != 0 || m.Score != 1 {
		t.Fatalf("unexpected chapter 0 result %+v", results[0])
	}
	if results[1].Match != nil || results[1].Err != nil {
		t.Fatalf("empty chapter should have no match and no error, got %+v", results[1])
	}
	snapshot, complete := counts.Snapshot()
	if !complete {
		t.Fatal("counts should be complete after all results")
	}
	for i, n := range snapshot {
		if n != 1 {
			t.Fatalf("chapter %d should have 1 page, got %d", i, n)
		}
	}
}

func TestScannerConvertsPanicsAndFetchErrors(t *testing.T) {
	source := newMemorySource("alpha beta gamma", "delta epsilon", "zeta eta theta")
	source.panics = map[int]bool{1: true}
	source.textErr = map[int]error{2: errors.New("disk on fire")}
	scanner := &Scanner{Source: source, Pagination: pagination.Config{LinesPerPage: 1}, Workers: 3}
	counts := NewPageCounts(3)

	results := byChapter(collect(t, scanner.Scan(context.Background(), "greek", scanner.Matcher.Prepare("alpha beta gamma"), 3, counts), 3))
	if results[0].Match == nil {
		t.Fatalf("healthy chapter should match, got %+v", results[0])
	}
	if results[1].Match != nil || !errors.Is(results[1].Err, services.ErrWorkerPanic) {
		t.Fatalf("panicking chapter should report ErrWorkerPanic, got %+v", results[1])
	}
	if results[2].Match != nil || !errors.Is(results[2].Err, services.ErrChapterText) {
		t.Fatalf("failing chapter should report ErrChapterText, got %+v", results[2])
	}
	snapshot, complete := counts.Snapshot()
	if !complete || snapshot[1] != 1 || snapshot[2] != 1 {
		t.Fatalf("failed chapters should record one page, got %v", snapshot)
	}

	outcome := Aggregate(feed(results[0], results[1], results[2]), counts, 3)
	if !outcome.Found() || outcome.Page != 0 || outcome.Failed != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestScannerSequentialMatchesPooled(t *testing.T) {
	book := syntheticBook(12, 20)
	cfg := pagination.Config{LinesPerPage: 3, Metrics: pagination.NewCellMetrics(48)}
	target := pagination.Paginate(book[7], cfg)[2].Text
	matcher := similarity.DefaultMatcher()
	query := matcher.Prepare(target)

	run := func(workers int) Outcome {
		source := newMemorySource(book...)
		scanner := &Scanner{Source: source, Pagination: cfg, Matcher: matcher, Workers: workers}
		counts := NewPageCounts(len(book))
		return Aggregate(scanner.Scan(context.Background(), "fauna", query, len(book), counts), counts, len(book))
	}

	sequential := run(1)
	want := 2
	for _, chapter := range book[:7] {
		want += pagination.Count(chapter, cfg)
	}
	if !sequential.Found() || sequential.Page != want || sequential.Chapter != 7 || sequential.LocalPage != 2 {
		t.Fatalf("sequential outcome %+v, want page %d", sequential, want)
	}
	for _, workers := range []int{2, 4, 16} {
		if pooled := run(workers); pooled != sequential {
			t.Fatalf("workers=%d outcome %+v differs from sequential %+v", workers, pooled, sequential)
		}
	}
}

func TestScannerBoundsConcurrency(t *testing.T) {
	source := newMemorySource(syntheticBook(12, 2)...)
	source.delay = 5 * time.Millisecond
	scanner := &Scanner{Source: source, Workers: 3}
	counts := NewPageCounts(12)
	collect(t, scanner.Scan(context.Background(), "fauna", scanner.Matcher.Prepare("heron"), 12, counts), 12)

	if peak := source.peakConcurrency(); peak > 3 || peak < 2 {
		t.Fatalf("peak concurrency %d, want between 2 and 3", peak)
	}
	if source.calls.Load() != 12 {
		t.Fatalf("expected 12 chapter fetches, got %d", source.calls.Load())
	}
}

func TestScannerCancelledContextStillReportsEveryChapter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := newMemorySource(syntheticBook(6, 4)...)
	scanner := &Scanner{Source: source, Workers: 1}
	counts := NewPageCounts(6)

	results := collect(t, scanner.Scan(ctx, "fauna", scanner.Matcher.Prepare("heron crossed"), 6, counts), 6)
	for _, r := range results {
		if r.Match != nil {
			t.Fatalf("cancelled scan should not match, got %+v", r)
		}
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", r.Err)
		}
	}
	if !counts.Complete() {
		t.Fatal("counts should be complete even when cancelled")
	}
}
