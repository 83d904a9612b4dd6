// Package align locates the page of a paginated book that a photographed
// page corresponds to.
//
// A Coordinator runs one request through the states Idle, OCRRunning,
// ScanningChapters, Aggregating and Done. The Scanner fans chapters out onto a
// bounded pool of goroutines; every task paginates its chapter once, records
// the page count, and scores each page against the OCR query with progressive
// window matching. A dedicated collector drains exactly one result per
// chapter, picks the global best, and converts its chapter-local page to a
// cumulative page number only after every chapter's page count is known. The
// caller blocks on a completion signal until the collector publishes an
// Outcome or the caller's context ends.
//
// Chapter text comes from a ChapterSource; OCR comes from an ocr.Engine.
// Neither is owned by this package.
package align
