package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"folio/internal/align"
	"folio/internal/config"
	"folio/internal/library"
)

func newBookCommand(ctx *commandContext) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage books in the local library",
	}

	bookCmd.AddCommand(newBookImportCommand(ctx))
	bookCmd.AddCommand(newBookListCommand(ctx))
	bookCmd.AddCommand(newBookShowCommand(ctx))
	bookCmd.AddCommand(newBookRenameCommand(ctx))
	bookCmd.AddCommand(newBookRemoveCommand(ctx))

	return bookCmd
}

func newBookImportCommand(ctx *commandContext) *cobra.Command {
	var title string
	var id string
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import a directory of chapter files as one book",
		Long: "Import reads every .txt and .md file in the directory, sorted by name, " +
			"and stores each file as one chapter in that order.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(_ *config.Config, store *library.Store) error {
				result, err := store.Import(cmd.Context(), args[0], library.ImportOptions{
					ID:      id,
					Title:   title,
					Timeout: wait,
					Logger:  ctx.commandLogger(),
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				book := result.Book
				switch {
				case result.Unchanged:
					fmt.Fprintf(out, "%s (%s) is already up to date\n", book.Title, book.ID)
				case result.Replaced:
					fmt.Fprintf(out, "Replaced %s (%s) with %d chapters\n", book.Title, book.ID, book.Chapters)
				default:
					fmt.Fprintf(out, "Imported %s (%s) with %d chapters\n", book.Title, book.ID, book.Chapters)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title (defaults to the directory name)")
	cmd.Flags().StringVar(&id, "id", "", "Book identifier (defaults to a slug of the title)")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "How long to wait for another import to finish")
	return cmd
}

func newBookListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(_ *config.Config, store *library.Store) error {
				books, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if books == nil {
						books = []library.Book{}
					}
					return writeJSON(cmd, books)
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintln(out, "No books imported yet")
					return nil
				}
				rows := make([][]string, 0, len(books))
				for _, book := range books {
					rows = append(rows, []string{
						book.ID,
						book.Title,
						strconv.Itoa(book.Chapters),
						humanize.Bytes(uint64(book.TextBytes)),
						humanize.Time(book.UpdatedAt),
					})
				}
				headers := []string{"ID", "Title", "Chapters", "Size", "Updated"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

type chapterView struct {
	Position   int    `json:"position"`
	Title      string `json:"title"`
	SourceName string `json:"source_name,omitempty"`
	Pages      int    `json:"pages"`
	FirstPage  int    `json:"first_page"`
}

type bookView struct {
	*library.Book
	Pages        int           `json:"pages"`
	ChapterPages []chapterView `json:"chapter_pages"`
}

func newBookShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <book>",
		Short: "Show a book's chapters and their page counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				book, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				chapters, err := store.Chapters(cmd.Context(), book.ID)
				if err != nil {
					return err
				}
				counts, _, err := chapterPageCounts(cfg, chapters)
				if err != nil {
					return err
				}

				view := bookView{Book: book, Pages: align.TotalPages(counts), ChapterPages: make([]chapterView, 0, len(chapters))}
				first := 0
				for i, ch := range chapters {
					view.ChapterPages = append(view.ChapterPages, chapterView{
						Position:   ch.Position,
						Title:      ch.Title,
						SourceName: ch.SourceName,
						Pages:      counts[i],
						FirstPage:  first,
					})
					first += counts[i]
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderField("Book", fmt.Sprintf("%s (%s)", book.Title, book.ID)))
				fmt.Fprintln(out, renderField("Chapters", strconv.Itoa(book.Chapters)))
				fmt.Fprintln(out, renderField("Pages", fmt.Sprintf("%d at %d lines per page", view.Pages, cfg.Pagination.LinesPerPage)))
				fmt.Fprintln(out, renderField("Text", humanize.Bytes(uint64(book.TextBytes))))
				if dir := strings.TrimSpace(book.SourceDir); dir != "" {
					fmt.Fprintln(out, renderField("Source", dir))
				}
				fmt.Fprintln(out)

				rows := make([][]string, 0, len(view.ChapterPages))
				for _, ch := range view.ChapterPages {
					rows = append(rows, []string{
						strconv.Itoa(ch.Position),
						ch.Title,
						strconv.Itoa(ch.Pages),
						strconv.Itoa(ch.FirstPage),
					})
				}
				headers := []string{"#", "Chapter", "Pages", "First page"}
				aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newBookRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <book> <title>",
		Short: "Change a book's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(_ *config.Config, store *library.Store) error {
				if err := store.Rename(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", args[0], strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func newBookRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <book>",
		Aliases: []string{"rm"},
		Short:   "Remove a book and its chapters",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(_ *config.Config, store *library.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}
