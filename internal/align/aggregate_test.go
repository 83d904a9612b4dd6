package align

import (
	"errors"
	"testing"
	"time"

	"folio/internal/services"
)

func match(chapter ChapterID, page int, score float64) *SimilarityResult {
	return &SimilarityResult{Chapter: chapter, LocalPage: page, Score: score}
}

func feed(results ...ChapterResult) <-chan ChapterResult {
	ch := make(chan ChapterResult, len(results))
	for _, r := range results {
		ch <- r
	}
	close(ch)
	return ch
}

func TestAggregateCumulativePage(t *testing.T) {
	counts := PageCountsOf(3, 5, 2)
	outcome := Aggregate(feed(
		ChapterResult{Chapter: 2},
		ChapterResult{Chapter: 1, Match: match(1, 2, 0.91)},
		ChapterResult{Chapter: 0, Match: match(0, 1, 0.85)},
	), counts, 3)

	if !outcome.Found() {
		t.Fatalf("expected a match, got %+v", outcome)
	}
	if outcome.Page != 5 || outcome.Chapter != 1 || outcome.LocalPage != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Score != 0.91 {
		t.Fatalf("unexpected score %v", outcome.Score)
	}
}

func TestAggregateFirstPageIsFound(t *testing.T) {
	outcome := Aggregate(feed(ChapterResult{Chapter: 0, Match: match(0, 0, 1)}), PageCountsOf(4), 1)
	if outcome.Status != StatusFound || outcome.Page != 0 {
		t.Fatalf("page 0 should be a found outcome, got %+v", outcome)
	}
}

func TestAggregateWaitsForEveryChapter(t *testing.T) {
	counts := NewPageCounts(3)
	results := make(chan ChapterResult)
	done := make(chan Outcome, 1)
	go func() {
		done <- Aggregate(results, counts, 3)
	}()

	counts.Set(0, 2)
	results <- ChapterResult{Chapter: 0, Match: match(0, 1, 0.82)}
	counts.Set(2, 4)
	results <- ChapterResult{Chapter: 2}

	select {
	case outcome := <-done:
		t.Fatalf("aggregate answered before all chapters reported: %+v", outcome)
	case <-time.After(50 * time.Millisecond):
	}

	counts.Set(1, 7)
	results <- ChapterResult{Chapter: 1, Match: match(1, 3, 0.97)}

	select {
	case outcome := <-done:
		if outcome.Chapter != 1 || outcome.Page != 2+3 {
			t.Fatalf("late best result should win, got %+v", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("aggregate did not answer after the last chapter")
	}
	if !counts.Complete() {
		t.Fatal("counts should be complete")
	}
}

func TestAggregateTieBreaksLowestChapter(t *testing.T) {
	outcome := Aggregate(feed(
		ChapterResult{Chapter: 2, Match: match(2, 0, 0.9)},
		ChapterResult{Chapter: 0, Match: match(0, 3, 0.9)},
		ChapterResult{Chapter: 1, Match: match(1, 1, 0.9)},
	), PageCountsOf(4, 4, 4), 3)
	if outcome.Chapter != 0 || outcome.Page != 3 {
		t.Fatalf("expected chapter 0 page 3 on tie, got %+v", outcome)
	}
}

func TestBetterOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b SimilarityResult
		want bool
	}{
		{"higher score", SimilarityResult{Chapter: 3, Score: 0.95}, SimilarityResult{Chapter: 0, Score: 0.9}, true},
		{"lower score", SimilarityResult{Score: 0.8}, SimilarityResult{Score: 0.9}, false},
		{"lower chapter", SimilarityResult{Chapter: 1, Score: 0.9}, SimilarityResult{Chapter: 2, Score: 0.9}, true},
		{"lower page", SimilarityResult{Chapter: 1, LocalPage: 0, Score: 0.9}, SimilarityResult{Chapter: 1, LocalPage: 4, Score: 0.9}, true},
		{"identical", SimilarityResult{Chapter: 1, Score: 0.9}, SimilarityResult{Chapter: 1, Score: 0.9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := better(tt.a, tt.b); got != tt.want {
				t.Fatalf("better() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateNoMatch(t *testing.T) {
	outcome := Aggregate(feed(
		ChapterResult{Chapter: 0},
		ChapterResult{Chapter: 1, Err: services.Wrap(services.ErrWorkerPanic, "scan", "score chapter", "boom", nil)},
	), PageCountsOf(1, 1), 2)
	if outcome.Status != StatusNotFound {
		t.Fatalf("expected not found, got %+v", outcome)
	}
	if !errors.Is(outcome.Cause, services.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch cause, got %v", outcome.Cause)
	}
	if outcome.Failed != 1 {
		t.Fatalf("expected one failed chapter, got %d", outcome.Failed)
	}
}

func TestAggregateEarlyCloseFillsMissingChapters(t *testing.T) {
	counts := NewPageCounts(3)
	counts.Set(0, 4)
	outcome := Aggregate(feed(ChapterResult{Chapter: 2, Match: match(2, 0, 0.88)}), counts, 3)
	if outcome.Page != 4+1 {
		t.Fatalf("missing chapters should count as one page, got %+v", outcome)
	}
	snapshot, complete := counts.Snapshot()
	if !complete || snapshot[1] != 1 || snapshot[2] != 1 {
		t.Fatalf("unexpected counts %v (complete=%v)", snapshot, complete)
	}
}

func TestAggregateIgnoresDuplicateAndOutOfRange(t *testing.T) {
	outcome := Aggregate(feed(
		ChapterResult{Chapter: 5, Match: match(5, 0, 1)},
		ChapterResult{Chapter: 0, Match: match(0, 1, 0.81)},
		ChapterResult{Chapter: 0, Match: match(0, 0, 0.99)},
	), PageCountsOf(2), 1)
	if outcome.LocalPage != 1 || outcome.Score != 0.81 {
		t.Fatalf("only the first in-range result should count, got %+v", outcome)
	}
}

func TestPageCountsWriteOnce(t *testing.T) {
	counts := NewPageCounts(2)
	if !counts.Set(0, 3) {
		t.Fatal("first write should succeed")
	}
	if counts.Set(0, 9) {
		t.Fatal("second write should be ignored")
	}
	if counts.Set(2, 1) || counts.Set(-1, 1) {
		t.Fatal("out of range writes should be ignored")
	}
	if counts.Complete() {
		t.Fatal("counts should not be complete yet")
	}
	counts.Set(1, 2)
	snapshot, complete := counts.Snapshot()
	if !complete || snapshot[0] != 3 || snapshot[1] != 2 {
		t.Fatalf("unexpected snapshot %v", snapshot)
	}
}

func TestLocate(t *testing.T) {
	counts := []int{3, 5, 2}
	tests := []struct {
		page        int
		wantChapter ChapterID
		wantLocal   int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{8, 2, 0},
		{9, 2, 1},
	}
	for _, tt := range tests {
		chapter, local, err := Locate(counts, tt.page)
		if err != nil {
			t.Fatalf("Locate(%d): %v", tt.page, err)
		}
		if chapter != tt.wantChapter || local != tt.wantLocal {
			t.Fatalf("Locate(%d) = (%d, %d), want (%d, %d)", tt.page, chapter, local, tt.wantChapter, tt.wantLocal)
		}
	}
	for _, page := range []int{-1, 10, 100} {
		if _, _, err := Locate(counts, page); !errors.Is(err, services.ErrNotFound) {
			t.Fatalf("Locate(%d) expected ErrNotFound, got %v", page, err)
		}
	}
	if TotalPages(counts) != 10 {
		t.Fatalf("unexpected total %d", TotalPages(counts))
	}
}
