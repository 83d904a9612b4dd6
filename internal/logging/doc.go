// Package logging assembles structured slog loggers and formatting helpers used
// across Folio.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scanner and coordinator code
// tag log lines with book IDs, chapter indexes, stages, and correlation IDs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
