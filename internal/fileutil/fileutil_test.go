package fileutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte("hello world"), "hello world"},
		{"utf8 bom", []byte("\xef\xbb\xbfhello"), "hello"},
		{"utf16 le bom", []byte{0xff, 0xfe, 'h', 0, 'i', 0}, "hi"},
		{"invalid bytes replaced", []byte("a\xffb"), "a�b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".txt")
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadText(path)
			if err != nil {
				t.Fatalf("ReadText: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ReadText() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ReadText(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"02-middle.md", "01-start.txt", "10-end.TXT", ".hidden.txt", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "notes.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir, "txt", ".md")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "01-start.txt"),
		filepath.Join(dir, "02-middle.md"),
		filepath.Join(dir, "10-end.TXT"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListFiles() = %v, want %v", got, want)
	}

	all, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 visible files without a filter, got %v", all)
	}

	if _, err := ListFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
