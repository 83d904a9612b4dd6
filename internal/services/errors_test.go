package services_test

import (
	"errors"
	"strings"
	"testing"

	"folio/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrOCR, "align", "recognize", "tesseract failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrOCR) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"align", "recognize", "tesseract failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestReasonMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"ocr", services.Wrap(services.ErrOCR, "align", "recognize", "", errors.New("io")), "the photo could not be read"},
		{"no chapters", services.Wrap(services.ErrNoChapters, "align", "", "", nil), "the book has no chapters"},
		{"no match", services.ErrNoMatch, "no page resembles the photo"},
		{"unknown book", services.Wrap(services.ErrNotFound, "library", "lookup", "book 7", nil), "the book is not in the library"},
		{"other", errors.New("disk"), "alignment failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Reason(tt.err); got != tt.want {
				t.Fatalf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}
