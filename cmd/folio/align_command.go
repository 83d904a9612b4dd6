package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/align"
	"folio/internal/config"
	"folio/internal/fileutil"
	"folio/internal/library"
	"folio/internal/ocr"
	"folio/internal/ocr/tesseract"
	"folio/internal/pagination"
	"folio/internal/services"
	"folio/internal/similarity"
)

type alignView struct {
	Book      string  `json:"book"`
	Status    string  `json:"status"`
	Page      int     `json:"page"`
	Chapter   int     `json:"chapter"`
	LocalPage int     `json:"local_page"`
	Score     float64 `json:"score"`
	Failed    int     `json:"failed_chapters,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// failedChaptersNote explains why numbering can disagree with `folio page`,
// which paginates the real text of every chapter.
func failedChaptersNote(failed int) string {
	return fmt.Sprintf("%d chapters could not be read and were counted as one page each; "+
		"page numbers after them may differ from `folio page`", failed)
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var textPath string
	var workers int
	var jsonOutput bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "align <book> [photo]",
		Short: "Locate the page of a book shown in a photo",
		Long: "Align recognizes the text of a page photo and reports which page of the book it shows. " +
			"Use --text to supply already recognized text from a file, or - for stdin, instead of a photo.",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(textPath) != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				bookID := args[0]
				if _, err := store.Get(cmd.Context(), bookID); err != nil {
					return err
				}
				coordinator, err := newAlignCoordinator(ctx, cfg, store, workers)
				if err != nil {
					return err
				}

				runCtx := cmd.Context()
				if timeout > 0 {
					var cancel context.CancelFunc
					runCtx, cancel = context.WithTimeout(runCtx, timeout)
					defer cancel()
				}

				var outcome align.Outcome
				if path := strings.TrimSpace(textPath); path != "" {
					text, err := readQueryText(cmd, path)
					if err != nil {
						return err
					}
					outcome, err = coordinator.AlignText(runCtx, bookID, text)
					if err != nil {
						return err
					}
				} else {
					photo, err := ocr.LoadImage(args[1])
					if err != nil {
						return services.Wrap(services.ErrValidation, "cli", "align", "load photo", err)
					}
					outcome, err = coordinator.Align(runCtx, bookID, photo)
					if err != nil {
						return err
					}
				}
				return printOutcome(cmd, bookID, outcome, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVar(&textPath, "text", "", "Read recognized text from FILE, or - for stdin, instead of running OCR")
	cmd.Flags().IntVar(&workers, "workers", 0, "Chapters scanned in parallel (defaults to alignment.workers)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits for the answer)")
	return cmd
}

func newAlignCoordinator(ctx *commandContext, cfg *config.Config, store *library.Store, workers int) (*align.Coordinator, error) {
	if workers < 0 {
		return nil, services.Wrap(services.ErrValidation, "cli", "align", "--workers must not be negative", nil)
	}
	if workers == 0 {
		workers = cfg.Alignment.Workers
	}
	paging, err := pagination.FromConfig(cfg.Pagination)
	if err != nil {
		return nil, err
	}
	matcher := similarity.Matcher{
		Window:    cfg.Alignment.WindowTokens,
		Step:      cfg.Alignment.StepTokens,
		Threshold: cfg.Alignment.Threshold,
	}
	engine := ocr.Preprocessed(tesseract.New(cfg.OCR), ocr.OptionsFromConfig(cfg.OCR))
	return align.NewCoordinator(engine, store,
		align.WithLogger(ctx.commandLogger()),
		align.WithWorkers(workers),
		align.WithMatcher(matcher),
		align.WithPagination(paging),
	), nil
}

func readQueryText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read text from stdin: %w", err)
		}
		return string(data), nil
	}
	text, err := fileutil.ReadText(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "align", "read text file", err)
	}
	return text, nil
}

func printOutcome(cmd *cobra.Command, bookID string, outcome align.Outcome, jsonOutput bool) error {
	view := alignView{
		Book:   bookID,
		Status: outcome.Status.String(),
		Failed: outcome.Failed,
	}
	if outcome.Failed > 0 {
		view.Note = failedChaptersNote(outcome.Failed)
	}
	if outcome.Found() {
		view.Page = outcome.Page
		view.Chapter = int(outcome.Chapter)
		view.LocalPage = outcome.LocalPage
		view.Score = outcome.Score
	} else {
		view.Reason = services.Reason(outcome.Cause)
	}
	if jsonOutput {
		return writeJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if !outcome.Found() {
		fmt.Fprintln(out, renderStatus(statusWarn, "could not locate this page: "+view.Reason, colorize))
	} else {
		fmt.Fprintln(out, renderStatus(statusOK, renderField("Page", strconv.Itoa(view.Page)), colorize))
		fmt.Fprintln(out, renderField("Chapter", strconv.Itoa(view.Chapter)))
		fmt.Fprintln(out, renderField("Local page", strconv.Itoa(view.LocalPage)))
		fmt.Fprintln(out, renderField("Score", strconv.FormatFloat(view.Score, 'f', 3, 64)))
	}
	if view.Note != "" {
		fmt.Fprintln(out, renderStatus(statusWarn, view.Note, colorize))
	}
	return nil
}
