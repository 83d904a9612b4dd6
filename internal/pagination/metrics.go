package pagination

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-runewidth"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"folio/internal/config"
)

// TextMetrics measures rendered line widths. Implementations must be safe for
// concurrent use because chapters are paginated in parallel.
type TextMetrics interface {
	// Width reports the rendered advance of s in the model's units.
	Width(s string) float64
	// LineWidth is the widest advance a single line may have.
	LineWidth() float64
}

// CellMetrics measures text in monospace terminal cells. Wide East Asian
// runes occupy two cells and combining marks none.
type CellMetrics struct {
	columns int
	cond    *runewidth.Condition
}

// NewCellMetrics returns cell metrics wrapping at columns cells.
func NewCellMetrics(columns int) *CellMetrics {
	cond := runewidth.NewCondition()
	// Ambiguous-width runes are treated as narrow regardless of the locale.
	cond.EastAsianWidth = false
	return &CellMetrics{columns: columns, cond: cond}
}

func (m *CellMetrics) Width(s string) float64 {
	return float64(m.cond.StringWidth(s))
}

func (m *CellMetrics) LineWidth() float64 {
	return float64(m.columns)
}

// FontMetrics measures text by summing glyph advances of an OpenType font at a
// fixed point size. Kerning is ignored.
type FontMetrics struct {
	font      *sfnt.Font
	ppem      fixed.Int26_6
	lineWidth float64

	// advances caches rune -> fixed.Int26_6. Concurrent pagination reads it
	// without locking.
	advances sync.Map
}

// NewFontMetrics parses a TrueType/OpenType font. An empty data slice selects
// the bundled Go Regular face.
func NewFontMetrics(data []byte, size, lineWidth float64) (*FontMetrics, error) {
	if len(data) == 0 {
		data = goregular.TTF
	}
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FontMetrics{
		font:      f,
		ppem:      fixed.Int26_6(size * 64),
		lineWidth: lineWidth,
	}, nil
}

// LoadFontMetrics reads the font at path (Go Regular when path is empty).
func LoadFontMetrics(path string, size, lineWidth float64) (*FontMetrics, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}
	return NewFontMetrics(data, size, lineWidth)
}

func (m *FontMetrics) Width(s string) float64 {
	var (
		total fixed.Int26_6
		buf   *sfnt.Buffer
	)
	for _, r := range s {
		if adv, ok := m.advances.Load(r); ok {
			total += adv.(fixed.Int26_6)
			continue
		}
		if buf == nil {
			buf = new(sfnt.Buffer)
		}
		total += m.advance(buf, r)
	}
	return float64(total) / 64
}

func (m *FontMetrics) LineWidth() float64 {
	return m.lineWidth
}

// advance looks up one glyph advance. sfnt.Font is shared between goroutines;
// each caller supplies its own buffer.
func (m *FontMetrics) advance(buf *sfnt.Buffer, r rune) fixed.Int26_6 {
	var adv fixed.Int26_6
	// Missing glyphs map to index 0 (.notdef) and take its advance.
	if idx, err := m.font.GlyphIndex(buf, r); err == nil {
		if a, err := m.font.GlyphAdvance(buf, idx, m.ppem, xfont.HintingNone); err == nil {
			adv = a
		}
	}
	m.advances.Store(r, adv)
	return adv
}

// NewMetrics builds the TextMetrics selected by the [pagination] settings.
func NewMetrics(cfg config.Pagination) (TextMetrics, error) {
	switch cfg.Metrics {
	case config.MetricsFont:
		metrics, err := LoadFontMetrics(cfg.FontPath, cfg.FontSize, cfg.LineWidth)
		if err != nil {
			return nil, err
		}
		return metrics, nil
	case config.MetricsCells, "":
		return NewCellMetrics(cfg.Columns), nil
	default:
		return nil, fmt.Errorf("unsupported metrics %q", cfg.Metrics)
	}
}

// FromConfig builds a pagination Config from the [pagination] settings.
func FromConfig(cfg config.Pagination) (Config, error) {
	metrics, err := NewMetrics(cfg)
	if err != nil {
		return Config{}, err
	}
	return Config{LinesPerPage: cfg.LinesPerPage, Metrics: metrics}, nil
}
