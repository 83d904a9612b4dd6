package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteChapters creates dir and writes one file per name/text pair, in order.
// Names are written as given, so callers control chapter ordering.
func WriteChapters(t testing.TB, dir string, pairs ...string) string {
	t.Helper()

	if len(pairs)%2 != 0 {
		t.Fatalf("WriteChapters needs name/text pairs, got %d values", len(pairs))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for i := 0; i < len(pairs); i += 2 {
		path := filepath.Join(dir, pairs[i])
		if err := os.WriteFile(path, []byte(pairs[i+1]), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

// TwoPartTale writes a small two chapter book under base and returns its
// directory.
func TwoPartTale(t testing.TB, base string) string {
	t.Helper()
	return WriteChapters(t, filepath.Join(base, "two-part-tale"),
		"01-part-one.txt", "Once upon a time...\n...the end of part one.",
		"02-part-two.txt", "Part two begins here...\n...and concludes.",
	)
}
