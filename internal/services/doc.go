// Package services defines shared utilities consumed by the alignment engine,
// the library store and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp book IDs, chapter indexes, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (OCR, empty books, crashed workers, no match) so callers can turn any of
//     them into a "could not locate this page" answer.
//
// Use these helpers when wiring new components so error classification and
// observability stay uniform.
package services
