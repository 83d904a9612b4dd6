package preflight

import (
	"os"
	"strings"

	"folio/internal/config"
)

// minFreeBytes is the free space below which the data directory check fails.
const minFreeBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every check that applies to cfg. ocrVersion is the linked
// Tesseract version, or empty when it could not be determined.
func RunAll(cfg *config.Config, ocrVersion string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckFreeSpace("Free space", cfg.Paths.DataDir, minFreeBytes),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Pagination.Metrics == config.MetricsFont && cfg.Pagination.FontPath != "" {
		results = append(results, CheckFont(cfg.Pagination))
	}
	results = append(results, CheckOCR(ocrVersion))
	if prefix := strings.TrimSpace(os.Getenv("TESSDATA_PREFIX")); prefix != "" {
		results = append(results, CheckLanguageData(prefix, cfg.OCR.Languages))
	}
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
