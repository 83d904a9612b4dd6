package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePagination(); err != nil {
		return err
	}
	c.normalizeAlignment()
	c.normalizeOCR()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("FOLIO_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePagination() error {
	c.Pagination.Metrics = strings.ToLower(strings.TrimSpace(c.Pagination.Metrics))
	if c.Pagination.Metrics == "" {
		c.Pagination.Metrics = defaultMetrics
	}
	c.Pagination.FontPath = strings.TrimSpace(c.Pagination.FontPath)
	if c.Pagination.FontPath != "" {
		var err error
		if c.Pagination.FontPath, err = expandPath(c.Pagination.FontPath); err != nil {
			return fmt.Errorf("pagination.font_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeAlignment() {
	if c.Alignment.Workers == 0 {
		c.Alignment.Workers = defaultWorkers
	}
	if c.Alignment.Threshold == 0 {
		c.Alignment.Threshold = defaultThreshold
	}
	if c.Alignment.WindowTokens == 0 {
		c.Alignment.WindowTokens = defaultWindowTokens
	}
	if c.Alignment.StepTokens == 0 {
		c.Alignment.StepTokens = defaultStepTokens
	}
}

func (c *Config) normalizeOCR() {
	langs := make([]string, 0, len(c.OCR.Languages))
	seen := make(map[string]struct{}, len(c.OCR.Languages))
	for _, lang := range c.OCR.Languages {
		normalized := strings.ToLower(strings.TrimSpace(lang))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		langs = append(langs, normalized)
	}
	if len(langs) == 0 {
		langs = []string{defaultOCRLanguage}
	}
	c.OCR.Languages = langs
	if c.OCR.DPI <= 0 {
		c.OCR.DPI = defaultOCRDPI
	}
	if c.OCR.MinWidth < 0 {
		c.OCR.MinWidth = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("FOLIO_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
