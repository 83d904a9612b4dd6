package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"folio/internal/align"
	"folio/internal/config"
	"folio/internal/library"
	"folio/internal/pagination"
	"folio/internal/services"
)

func newPageCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page <book> <n>",
		Short: "Print page n of a book, counting from 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return services.Wrap(services.ErrValidation, "cli", "page", fmt.Sprintf("page %q is not a number", args[1]), nil)
			}
			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				chapters, err := store.Chapters(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				counts, paging, err := chapterPageCounts(cfg, chapters)
				if err != nil {
					return err
				}
				chapter, local, err := align.Locate(counts, n)
				if err != nil {
					return err
				}
				pages := pagination.Paginate(chapters[chapter].Text, paging)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s, page %d of %d (%s, page %d)\n\n",
					args[0], n, align.TotalPages(counts), chapters[chapter].Title, local)
				fmt.Fprintln(out, pages[local].Text)
				return nil
			})
		},
	}
	return cmd
}

// chapterPageCounts paginates every chapter under the configured settings.
func chapterPageCounts(cfg *config.Config, chapters []library.Chapter) ([]int, pagination.Config, error) {
	paging, err := pagination.FromConfig(cfg.Pagination)
	if err != nil {
		return nil, pagination.Config{}, err
	}
	counts := make([]int, len(chapters))
	for i, ch := range chapters {
		counts[i] = pagination.Count(ch.Text, paging)
	}
	return counts, paging, nil
}
