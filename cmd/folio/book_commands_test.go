package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"folio/internal/library"
	"folio/internal/services"
)

func TestBookImportListShow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importTale(t)

	out, _, err := runCLI(t, []string{"book", "list"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book list: %v", err)
	}
	requireContains(t, out, "tale")
	requireContains(t, out, "A Two Part Tale")

	out, _, err = runCLI(t, []string{"book", "list", "--json"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book list --json: %v", err)
	}
	var books []library.Book
	if err := json.Unmarshal([]byte(out), &books); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	if len(books) != 1 || books[0].ID != "tale" || books[0].Chapters != 2 {
		t.Fatalf("unexpected books %+v", books)
	}

	out, _, err = runCLI(t, []string{"book", "show", "tale", "--json"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book show --json: %v", err)
	}
	var view struct {
		ID           string `json:"id"`
		Pages        int    `json:"pages"`
		ChapterPages []struct {
			Pages     int `json:"pages"`
			FirstPage int `json:"first_page"`
		} `json:"chapter_pages"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show: %v\n%s", err, out)
	}
	if view.ID != "tale" || view.Pages != 4 || len(view.ChapterPages) != 2 {
		t.Fatalf("unexpected show output %+v", view)
	}
	if view.ChapterPages[1].Pages != 2 || view.ChapterPages[1].FirstPage != 2 {
		t.Fatalf("unexpected second chapter %+v", view.ChapterPages[1])
	}

	out, _, err = runCLI(t, []string{"book", "show", "tale"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book show: %v", err)
	}
	requireContains(t, out, "4 at 1 lines per page")
	requireContains(t, out, "Part One")
}

func TestBookImportTwiceIsUnchanged(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importTale(t)

	dir := filepath.Join(env.baseDir, "two-part-tale")
	out, _, err := runCLI(t, []string{"book", "import", dir, "--id", "tale", "--title", "A Two Part Tale"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	requireContains(t, out, "already up to date")
}

func TestBookRenameAndRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importTale(t)

	out, _, err := runCLI(t, []string{"book", "rename", "tale", "The Tale"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book rename: %v", err)
	}
	requireContains(t, out, "Renamed tale")

	out, _, err = runCLI(t, []string{"book", "remove", "tale"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book remove: %v", err)
	}
	requireContains(t, out, "Removed tale")

	out, _, err = runCLI(t, []string{"book", "list"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("book list: %v", err)
	}
	requireContains(t, out, "No books imported yet")

	if _, _, err := runCLI(t, []string{"book", "remove", "tale"}, env.configPath, nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing twice, got %v", err)
	}
}

func TestPageCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importTale(t)

	out, _, err := runCLI(t, []string{"page", "tale", "2"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	requireContains(t, out, "Part two begins here...")
	requireContains(t, out, "page 2 of 4")

	if _, _, err := runCLI(t, []string{"page", "tale", "4"}, env.configPath, nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound past the last page, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"page", "tale", "two"}, env.configPath, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for a non-numeric page, got %v", err)
	}
}
