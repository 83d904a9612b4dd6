// Package preflight provides readiness checks for the paths and OCR resources
// folio depends on.
//
// The CLI "folio config validate" command runs RunAll and prints every
// result. A failed check never aborts the command; it explains what to fix
// before importing books or aligning photos.
package preflight
