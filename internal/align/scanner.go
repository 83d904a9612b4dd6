package align

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"folio/internal/logging"
	"folio/internal/pagination"
	"folio/internal/services"
	"folio/internal/similarity"
)

// DefaultWorkers bounds concurrent chapter scans when Workers is unset.
const DefaultWorkers = 4

// Scanner searches every chapter of a book for the page that best matches a
// query.
type Scanner struct {
	Source     ChapterSource
	Pagination pagination.Config
	Matcher    similarity.Matcher
	Workers    int
	Logger     *slog.Logger
}

// Scan dispatches one task per chapter onto at most Workers goroutines and
// returns a channel that yields exactly total results in completion order,
// then closes. Each task records its chapter's page count in counts before
// reporting. When ctx ends, undispatched chapters report ctx.Err() without
// being scanned.
func (s *Scanner) Scan(ctx context.Context, bookID string, query similarity.Query, total int, counts *PageCounts) <-chan ChapterResult {
	total = max(total, 0)
	results := make(chan ChapterResult, total)
	sem := semaphore.NewWeighted(int64(s.workers()))

	go func() {
		var wg sync.WaitGroup
		defer close(results)
		defer wg.Wait()

		for i := 0; i < total; i++ {
			chapter := ChapterID(i)
			if err := sem.Acquire(ctx, 1); err != nil {
				for rest := i; rest < total; rest++ {
					counts.Set(ChapterID(rest), 1)
					results <- ChapterResult{Chapter: ChapterID(rest), Err: err}
				}
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				results <- s.scanChapter(ctx, bookID, query, chapter, counts)
			}()
		}
	}()
	return results
}

func (s *Scanner) scanChapter(ctx context.Context, bookID string, query similarity.Query, chapter ChapterID, counts *PageCounts) (result ChapterResult) {
	ctx = services.WithChapter(ctx, int(chapter))
	logger := logging.WithContext(ctx, logging.NewComponentLogger(s.Logger, "scanner"))
	start := time.Now()
	result.Chapter = chapter

	defer func() {
		if r := recover(); r != nil {
			counts.Set(chapter, 1)
			result = ChapterResult{
				Chapter: chapter,
				Err:     services.Wrap(services.ErrWorkerPanic, "scan", "score chapter", fmt.Sprint(r), nil),
			}
			logging.ErrorWithContext(logger, "chapter scan panicked", "chapter_panic",
				logging.Error(result.Err),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "inspect the chapter text for content the scanner cannot handle"),
			)
		}
	}()

	text, err := s.Source.ChapterText(ctx, bookID, int(chapter))
	if err != nil {
		counts.Set(chapter, 1)
		result.Err = services.Wrap(services.ErrChapterText, "scan", "fetch chapter text", "", err)
		logging.WarnWithContext(logger, "chapter text unavailable", "chapter_text_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "re-import the book or check the library database"),
		)
		return result
	}

	pages := pagination.Paginate(text, s.Pagination)
	counts.Set(chapter, len(pages))

	match, err := s.bestPage(ctx, query, chapter, pages)
	if err != nil {
		result.Err = err
		return result
	}
	result.Match = match

	attrs := []logging.Attr{
		logging.Int("pages", len(pages)),
		logging.Duration("elapsed", time.Since(start)),
	}
	if match != nil {
		attrs = append(attrs, logging.Int("local_page", match.LocalPage), logging.Score(match.Score))
	}
	logger.Debug("chapter scanned", logging.Args(attrs...)...)
	return result
}

// bestPage keeps the highest scoring page at or above the threshold. The
// first page found wins when scores are equal.
func (s *Scanner) bestPage(ctx context.Context, query similarity.Query, chapter ChapterID, pages []pagination.Page) (*SimilarityResult, error) {
	threshold := s.Matcher.MinScore()
	var best *SimilarityResult
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, ok := s.Matcher.Match(query, similarity.Tokenize(page.Text))
		if !ok || score < threshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &SimilarityResult{Chapter: chapter, LocalPage: page.Index, Score: score}
		}
	}
	return best, nil
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return DefaultWorkers
}
