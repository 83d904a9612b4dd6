// Package pagination cuts chapter text into a stable sequence of fixed-size
// pages.
//
// Text is wrapped greedily into lines using a TextMetrics model (terminal
// cells or font glyph advances), and a page boundary is cut every
// LinesPerPage lines. Paginate is a pure function of its inputs: the same
// text and Config always produce the same pages, which is what makes
// cumulative page numbers reproducible across runs. Empty text yields a single
// empty page so callers may index the first page unconditionally.
package pagination
