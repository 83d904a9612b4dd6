package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	rows := [][]string{{"tale", "A Two Part Tale", "2"}, {"short"}}
	headers := []string{"ID", "Title", "Chapters"}

	boxed := renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight}, true)
	requireContains(t, boxed, "╭")
	requireContains(t, boxed, "A Two Part Tale")

	plain := renderTable(headers, rows, nil, false)
	if strings.ContainsAny(plain, "╭│") {
		t.Fatalf("plain table should not draw borders:\n%s", plain)
	}
	requireContains(t, plain, "short")

	if renderTable(nil, rows, nil, true) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestRenderStatusColorsOnlyWhenAsked(t *testing.T) {
	if got := renderStatus(statusOK, "found", false); got != "found" {
		t.Fatalf("unexpected plain status %q", got)
	}
	if got := renderStatus(statusOK, "found", true); got != ansiGreen+"found"+ansiReset {
		t.Fatalf("unexpected colored status %q", got)
	}
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
