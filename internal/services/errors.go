package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOCR           = errors.New("ocr failure")
	ErrNoChapters    = errors.New("no chapters available")
	ErrWorkerPanic   = errors.New("worker panic")
	ErrNoMatch       = errors.New("no match found")
	ErrChapterText   = errors.New("chapter text unavailable")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Reason maps an alignment failure to the short explanation shown to readers
// when a page cannot be located.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOCR):
		return "the photo could not be read"
	case errors.Is(err, ErrNoChapters):
		return "the book has no chapters"
	case errors.Is(err, ErrNoMatch):
		return "no page resembles the photo"
	case errors.Is(err, ErrNotFound):
		return "the book is not in the library"
	default:
		return "alignment failed"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
