package testsupport

import (
	"context"
	"testing"

	"folio/internal/config"
	"folio/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustImport imports dir into store under id.
func MustImport(t testing.TB, store *library.Store, dir, id string) *library.Book {
	t.Helper()

	result, err := store.Import(context.Background(), dir, library.ImportOptions{ID: id})
	if err != nil {
		t.Fatalf("store.Import: %v", err)
	}
	return result.Book
}
