package services_test

import (
	"context"
	"testing"

	"folio/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBookID(ctx, "dune")
	ctx = services.WithChapter(ctx, 3)
	ctx = services.WithStage(ctx, "scanning")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.BookIDFromContext(ctx); !ok || id != "dune" {
		t.Fatalf("unexpected book id: %v %v", id, ok)
	}
	if ch, ok := services.ChapterFromContext(ctx); !ok || ch != 3 {
		t.Fatalf("unexpected chapter: %v %v", ch, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "scanning" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithBookID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.BookIDFromContext(ctx); ok {
		t.Fatal("expected no book id value")
	}
	if _, ok := services.ChapterFromContext(ctx); ok {
		t.Fatal("expected no chapter value")
	}
}
