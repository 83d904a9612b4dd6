package library

import "time"

// Book describes an imported book without its chapter text.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SourceDir string    `json:"source_dir,omitempty"`
	Checksum  string    `json:"checksum"`
	Chapters  int       `json:"chapters"`
	TextBytes int64     `json:"text_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter is one chapter of a book. Position is zero-based.
type Chapter struct {
	Position   int    `json:"position"`
	Title      string `json:"title"`
	SourceName string `json:"source_name,omitempty"`
	Text       string `json:"-"`
}

// NewBook is the input to Put.
type NewBook struct {
	ID        string
	Title     string
	SourceDir string
	Chapters  []Chapter
}
