// Package library persists imported books and serves their chapter text.
//
// Books live in a SQLite database (modernc.org/sqlite) under the data
// directory. A book is a title plus an ordered list of chapters, each holding
// the full chapter text extracted ahead of time. Store implements the chapter
// source consulted by alignment: chapters are addressed by zero-based
// position and returned verbatim, so pagination stays reproducible between
// runs.
//
// Import turns a directory of chapter files into a book. It holds an advisory
// file lock so two processes cannot rewrite the library at once.
package library
