package align

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/logging"
	"folio/internal/ocr"
	"folio/internal/pagination"
	"folio/internal/services"
	"folio/internal/similarity"
)

// State is a step of one alignment request.
type State int

const (
	StateIdle State = iota
	StateOCRRunning
	StateScanningChapters
	StateAggregating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOCRRunning:
		return "ocr_running"
	case StateScanningChapters:
		return "scanning_chapters"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StateObserver is told about every state a request enters. It may be called
// from the collector goroutine.
type StateObserver func(requestID string, state State)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStateObserver registers fn to see state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(c *Coordinator) {
		c.observer = fn
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithWorkers bounds concurrent chapter scans.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		c.workers = n
	}
}

// WithMatcher overrides the similarity matcher.
func WithMatcher(m similarity.Matcher) Option {
	return func(c *Coordinator) {
		c.matcher = m
	}
}

// WithPagination sets how chapters are cut into pages.
func WithPagination(cfg pagination.Config) Option {
	return func(c *Coordinator) {
		c.pagination = cfg
	}
}

// Coordinator runs alignment requests. It is safe for concurrent use; each
// request carries its own state.
type Coordinator struct {
	engine     ocr.Engine
	source     ChapterSource
	pagination pagination.Config
	matcher    similarity.Matcher
	workers    int
	base       *slog.Logger
	logger     *slog.Logger
	observer   StateObserver
	newID      func() string
}

// NewCoordinator constructs a coordinator over an OCR engine and a chapter
// source. engine may be nil when only AlignText is used.
func NewCoordinator(engine ocr.Engine, source ChapterSource, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:  engine,
		source:  source,
		matcher: similarity.DefaultMatcher(),
		workers: DefaultWorkers,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.base = c.logger
	c.logger = logging.NewComponentLogger(c.base, "coordinator")
	return c
}

// request tracks one pass through the state machine.
type request struct {
	id       string
	logger   *slog.Logger
	observer StateObserver
	started  time.Time

	mu    sync.Mutex
	state State
}

func (r *request) transition(next State) {
	r.mu.Lock()
	if r.state == StateDone || next <= r.state {
		r.mu.Unlock()
		return
	}
	r.state = next
	r.mu.Unlock()
	r.logger.Debug("alignment state changed", logging.String("state", next.String()))
	if r.observer != nil {
		r.observer(r.id, next)
	}
}

func (c *Coordinator) begin(ctx context.Context, bookID string) (context.Context, *request) {
	id := c.newID()
	ctx = services.WithRequestID(ctx, id)
	ctx = services.WithBookID(ctx, bookID)
	r := &request{
		id:       id,
		logger:   logging.WithContext(ctx, c.logger),
		observer: c.observer,
		started:  time.Now(),
	}
	if r.observer != nil {
		r.observer(id, StateIdle)
	}
	return ctx, r
}

// Align recognizes the text of a page photo and locates the matching page.
// A page that cannot be located is reported through Outcome.Cause; the error
// is non-nil only when ctx ends first or the book's chapters cannot be
// counted.
func (c *Coordinator) Align(ctx context.Context, bookID string, photo ocr.Image) (Outcome, error) {
	ctx, r := c.begin(ctx, bookID)
	r.transition(StateOCRRunning)

	ocrCtx := services.WithStage(ctx, "ocr")
	if c.engine == nil {
		return c.finish(r, Outcome{
			Status: StatusNotFound,
			Cause:  services.Wrap(services.ErrOCR, "ocr", "recognize", "no OCR engine configured", nil),
		}), nil
	}
	started := time.Now()
	text, err := c.engine.Recognize(ocrCtx, photo)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return c.finish(r, Outcome{Status: StatusPending}), ctxErr
		}
		cause := services.Wrap(services.ErrOCR, "ocr", "recognize", photo.Name, err)
		logging.WarnWithContext(r.logger, "ocr failed", "ocr_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "retake the photo with the page flat and well lit"),
			logging.String(logging.FieldImpact, "page cannot be located"),
		)
		return c.finish(r, Outcome{Status: StatusNotFound, Cause: cause}), nil
	}
	r.logger.Info("ocr complete",
		logging.Int("characters", len(text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return c.locate(ctx, r, bookID, text)
}

// AlignText locates the page matching already recognized text. The request
// skips the OCR state.
func (c *Coordinator) AlignText(ctx context.Context, bookID, text string) (Outcome, error) {
	ctx, r := c.begin(ctx, bookID)
	return c.locate(ctx, r, bookID, text)
}

func (c *Coordinator) locate(ctx context.Context, r *request, bookID, text string) (Outcome, error) {
	ctx = services.WithStage(ctx, "scan")

	total, err := c.source.ChapterCount(ctx, bookID)
	if err != nil {
		c.finish(r, Outcome{Status: StatusNotFound, Cause: err})
		return Outcome{Status: StatusNotFound, Cause: err}, err
	}
	if total <= 0 {
		return c.finish(r, Outcome{
			Status: StatusNotFound,
			Cause:  services.Wrap(services.ErrNoChapters, "scan", "count chapters", bookID, nil),
		}), nil
	}

	query := c.matcher.Prepare(text)
	if query.Len() == 0 {
		return c.finish(r, Outcome{
			Status: StatusNotFound,
			Cause:  services.Wrap(services.ErrNoMatch, "scan", "prepare query", "recognized text is empty", nil),
		}), nil
	}

	r.transition(StateScanningChapters)
	r.logger.Info("scanning chapters",
		logging.Int("chapters", total),
		logging.Int("query_tokens", query.Len()),
		logging.Int("workers", c.workers),
	)

	scanner := &Scanner{
		Source:     c.source,
		Pagination: c.pagination,
		Matcher:    c.matcher,
		Workers:    c.workers,
		Logger:     c.base,
	}
	counts := NewPageCounts(total)
	results := scanner.Scan(ctx, bookID, query, total, counts)

	done := newCompletion()
	go func() {
		t := newTally(total)
		t.drain(results)
		r.transition(StateAggregating)
		done.publish(t.outcome(counts))
	}()

	outcome, err := done.Wait(ctx)
	if err != nil {
		return c.finish(r, outcome), err
	}
	return c.finish(r, outcome), nil
}

func (c *Coordinator) finish(r *request, outcome Outcome) Outcome {
	r.transition(StateDone)
	attrs := []logging.Attr{
		logging.String("status", outcome.Status.String()),
		logging.Duration("elapsed", time.Since(r.started)),
	}
	if outcome.Failed > 0 {
		attrs = append(attrs, logging.Int("failed_chapters", outcome.Failed))
	}
	switch outcome.Status {
	case StatusFound:
		attrs = append(attrs,
			logging.Int("page", outcome.Page),
			logging.Int("chapter_index", int(outcome.Chapter)),
			logging.Int("local_page", outcome.LocalPage),
			logging.Score(outcome.Score),
		)
		r.logger.Info("page located", logging.Args(attrs...)...)
	case StatusNotFound:
		attrs = append(attrs, logging.String("reason", services.Reason(outcome.Cause)), logging.Error(outcome.Cause))
		r.logger.Info("page not located", logging.Args(attrs...)...)
	default:
		r.logger.Info("alignment abandoned", logging.Args(attrs...)...)
	}
	return outcome
}
