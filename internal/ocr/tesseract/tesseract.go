// Package tesseract recognizes page photos with the Tesseract OCR engine
// through gosseract.
package tesseract

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"folio/internal/config"
	"folio/internal/ocr"
)

// Engine implements ocr.Engine with a fresh gosseract client per photo.
type Engine struct {
	Languages   []string
	DPI         int
	PageSegMode int
	Variables   map[string]string

	clientFactory func() *gosseract.Client
}

// New constructs an engine from the [ocr] settings.
func New(cfg config.OCR) *Engine {
	return &Engine{
		Languages:     slices.Clone(cfg.Languages),
		DPI:           cfg.DPI,
		PageSegMode:   cfg.PageSegMode,
		Variables:     maps.Clone(cfg.Variables),
		clientFactory: gosseract.NewClient,
	}
}

// Version reports the linked Tesseract version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}

// Recognize runs OCR on a single photo.
func (e *Engine) Recognize(ctx context.Context, img ocr.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(img.Data) == 0 {
		return "", ocr.ErrEmptyImage
	}
	factory := e.clientFactory
	if factory == nil {
		factory = gosseract.NewClient
	}
	c := factory()
	defer c.Close()

	if err := e.configure(c); err != nil {
		return "", err
	}
	if err := c.SetImageFromBytes(img.Data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *Engine) configure(c *gosseract.Client) error {
	if len(e.Languages) > 0 {
		if err := c.SetLanguage(e.Languages...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(e.PageSegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if e.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.DPI)); err != nil {
			return fmt.Errorf("set dpi: %w", err)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(e.Variables)) {
		if err := c.SetVariable(gosseract.SettableVariable(key), e.Variables[key]); err != nil {
			return fmt.Errorf("set variable %s: %w", key, err)
		}
	}
	return nil
}
