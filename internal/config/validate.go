package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePagination(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePagination() error {
	if c.Pagination.LinesPerPage < 1 {
		return errors.New("pagination.lines_per_page must be at least 1")
	}
	switch c.Pagination.Metrics {
	case MetricsCells:
		if c.Pagination.Columns < minColumns {
			return fmt.Errorf("pagination.columns must be at least %d", minColumns)
		}
	case MetricsFont:
		if c.Pagination.FontSize <= 0 {
			return errors.New("pagination.font_size must be positive when pagination.metrics is \"font\"")
		}
		if c.Pagination.LineWidth <= 0 {
			return errors.New("pagination.line_width must be positive when pagination.metrics is \"font\"")
		}
	default:
		return fmt.Errorf("pagination.metrics: unsupported value %q (use %q or %q)", c.Pagination.Metrics, MetricsCells, MetricsFont)
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.Workers < 1 || c.Alignment.Workers > maxWorkers {
		return fmt.Errorf("alignment.workers must be between 1 and %d", maxWorkers)
	}
	if c.Alignment.Threshold <= 0 || c.Alignment.Threshold > 1 {
		return errors.New("alignment.threshold must be greater than 0 and at most 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"alignment.window_tokens": c.Alignment.WindowTokens,
		"alignment.step_tokens":   c.Alignment.StepTokens,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOCR() error {
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return errors.New("ocr.page_seg_mode must be between 0 and 13")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
