package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"folio/internal/fileutil"
	"folio/internal/logging"
	"folio/internal/services"
	"folio/internal/textutil"
)

// ChapterExtensions lists the file types Import reads as chapters.
var ChapterExtensions = []string{".txt", ".md"}

const lockRetryDelay = 100 * time.Millisecond

// ImportOptions overrides what Import derives from the directory.
type ImportOptions struct {
	// ID defaults to a slug of the title.
	ID string
	// Title defaults to the directory name.
	Title string
	// Timeout bounds the wait for the library lock. Zero waits until ctx ends.
	Timeout time.Duration
	Logger  *slog.Logger
}

// ImportResult reports what Import stored.
type ImportResult struct {
	Book     *Book
	Replaced bool
	// Unchanged is true when an existing book already held identical text.
	Unchanged bool
}

// Import reads every chapter file in dir, in name order, and stores them as one
// book. Empty chapter files are kept so chapter positions match the files.
func (s *Store) Import(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	ctx = ensureContext(ctx)
	logger := logging.NewComponentLogger(opts.Logger, "library")

	info, err := os.Stat(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "import", "read book directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "library", "import", fmt.Sprintf("%s is not a directory", dir), nil)
	}

	files, err := fileutil.ListFiles(dir, ChapterExtensions...)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "import", "list chapter files", err)
	}
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrNoChapters, "library", "import",
			fmt.Sprintf("no %s files in %s", strings.Join(ChapterExtensions, " or "), dir), nil)
	}

	chapters := make([]Chapter, 0, len(files))
	for i, path := range files {
		text, err := fileutil.ReadText(path)
		if err != nil {
			return nil, services.Wrap(services.ErrChapterText, "library", "import", filepath.Base(path), err)
		}
		name := filepath.Base(path)
		title := textutil.TitleFromName(strings.TrimSuffix(name, filepath.Ext(name)))
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, Chapter{Position: i, Title: title, SourceName: name, Text: text})
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			abs = dir
		}
		title = textutil.TitleFromName(filepath.Base(abs))
	}
	id := strings.TrimSpace(opts.ID)
	if id == "" {
		id = textutil.Slug(title)
	}
	ctx = services.WithBookID(ctx, id)
	logger = logging.WithContext(ctx, logger)

	unlock, err := s.lock(ctx, opts.Timeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &ImportResult{}
	existing, err := s.Get(ctx, id)
	switch {
	case err == nil:
		result.Replaced = true
		result.Unchanged = existing.Checksum == chapterChecksum(chapters) && existing.Title == title
	case errors.Is(err, services.ErrNotFound):
	default:
		return nil, err
	}

	if result.Unchanged {
		result.Book = existing
		logger.Info("book unchanged", logging.Int("chapters", existing.Chapters))
		return result, nil
	}

	book, err := s.Put(ctx, NewBook{ID: id, Title: title, SourceDir: dir, Chapters: chapters})
	if err != nil {
		return nil, fmt.Errorf("store book: %w", err)
	}
	result.Book = book
	logger.Info("book imported",
		logging.String("title", book.Title),
		logging.Int("chapters", book.Chapters),
		logging.Bool("replaced", result.Replaced),
	)
	return result, nil
}

// lock takes the library's advisory write lock.
func (s *Store) lock(ctx context.Context, timeout time.Duration) (func(), error) {
	fl := flock.New(s.lockPath)
	lockCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if ctxErr := lockCtx.Err(); ctxErr != nil {
			return nil, services.Wrap(services.ErrConfiguration, "library", "lock", "another folio process is writing the library", ctxErr)
		}
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "library", "lock", "another folio process is writing the library", nil)
	}
	return func() { _ = fl.Unlock() }, nil
}
