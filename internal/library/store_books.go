package library

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"folio/internal/services"
)

const bookColumns = `b.id, b.title, b.source_dir, b.checksum, b.created_at, b.updated_at,
        (SELECT COUNT(1) FROM chapters c WHERE c.book_id = b.id),
        (SELECT COALESCE(SUM(LENGTH(CAST(c.body AS BLOB))), 0) FROM chapters c WHERE c.book_id = b.id)`

// Put stores a book, replacing any existing book with the same ID. Chapters are
// renumbered in the given order.
func (s *Store) Put(ctx context.Context, nb NewBook) (*Book, error) {
	ctx = ensureContext(ctx)
	id := strings.TrimSpace(nb.ID)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "put book", "book id is required", nil)
	}
	title := strings.TrimSpace(nb.Title)
	if title == "" {
		title = id
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	checksum := chapterChecksum(nb.Chapters)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		createdAt := now
		var existing string
		switch err := tx.QueryRowContext(ctx, "SELECT created_at FROM books WHERE id = ?", id).Scan(&existing); {
		case err == nil:
			createdAt = existing
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("lookup book: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM chapters WHERE book_id = ?", id); err != nil {
			return fmt.Errorf("clear chapters: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO books (id, title, source_dir, checksum, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                title = excluded.title,
                source_dir = excluded.source_dir,
                checksum = excluded.checksum,
                updated_at = excluded.updated_at`,
			id, title, nullableString(nb.SourceDir), checksum, createdAt, now,
		); err != nil {
			return fmt.Errorf("upsert book: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO chapters (book_id, position, title, source_name, body) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare chapter insert: %w", err)
		}
		defer stmt.Close()
		for i, ch := range nb.Chapters {
			chTitle := strings.TrimSpace(ch.Title)
			if chTitle == "" {
				chTitle = fmt.Sprintf("Chapter %d", i+1)
			}
			if _, err := stmt.ExecContext(ctx, id, i, chTitle, nullableString(ch.SourceName), ch.Text); err != nil {
				return fmt.Errorf("insert chapter %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get returns a book by ID. Unknown books yield an error marked
// services.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Book, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books b WHERE b.id = ?", id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bookNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// List returns every book ordered by title.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+" FROM books b ORDER BY b.title COLLATE NOCASE, b.id")
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// Remove deletes a book and its chapters.
func (s *Store) Remove(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chapters WHERE book_id = ?", id); err != nil {
			return fmt.Errorf("delete chapters: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return bookNotFound(id)
	}
	return nil
}

// Rename changes a book's title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return services.Wrap(services.ErrValidation, "library", "rename book", "title is required", nil)
	}
	affected, err := s.execWithRetry(ctx, "UPDATE books SET title = ?, updated_at = ? WHERE id = ?",
		title, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("rename book: %w", err)
	}
	if affected == 0 {
		return bookNotFound(id)
	}
	return nil
}

// Chapters returns a book's chapters in order, including their text.
func (s *Store) Chapters(ctx context.Context, id string) ([]Chapter, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT position, title, source_name, body FROM chapters WHERE book_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var (
			ch     Chapter
			source sql.NullString
		)
		if err := rows.Scan(&ch.Position, &ch.Title, &source, &ch.Text); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		ch.SourceName = source.String
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapters: %w", err)
	}
	return chapters, nil
}

// ChapterCount reports how many chapters a book has.
func (s *Store) ChapterCount(ctx context.Context, bookID string) (int, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return book.Chapters, nil
}

// ChapterText returns the full text of the chapter at a zero-based position.
func (s *Store) ChapterText(ctx context.Context, bookID string, chapter int) (string, error) {
	ctx = ensureContext(ctx)
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM chapters WHERE book_id = ? AND position = ?", bookID, chapter,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", services.Wrap(services.ErrNotFound, "library", "chapter text",
			fmt.Sprintf("book %q has no chapter %d", bookID, chapter), nil)
	}
	if err != nil {
		return "", fmt.Errorf("read chapter text: %w", err)
	}
	return body, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var (
		book             Book
		source           sql.NullString
		created, updated string
	)
	if err := row.Scan(&book.ID, &book.Title, &source, &book.Checksum, &created, &updated, &book.Chapters, &book.TextBytes); err != nil {
		return nil, err
	}
	book.SourceDir = source.String
	book.CreatedAt = parseTime(created)
	book.UpdatedAt = parseTime(updated)
	return &book, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func bookNotFound(id string) error {
	return services.Wrap(services.ErrNotFound, "library", "lookup book", fmt.Sprintf("no book with id %q", id), nil)
}

// chapterChecksum fingerprints chapter text so re-imports can be detected.
func chapterChecksum(chapters []Chapter) string {
	h := sha256.New()
	for _, ch := range chapters {
		fmt.Fprintf(h, "%d\x00", len(ch.Text))
		h.Write([]byte(ch.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
