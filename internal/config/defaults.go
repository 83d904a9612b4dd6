package config

const (
	defaultLogDir         = "~/.local/share/folio/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLinesPerPage   = 30
	defaultMetrics        = MetricsCells
	defaultColumns        = 64
	defaultFontSize       = 11.0
	defaultLineWidth      = 336.0
	defaultWorkers        = 4
	defaultThreshold      = 0.8
	defaultWindowTokens   = 10
	defaultStepTokens     = 10
	defaultOCRLanguage    = "eng"
	defaultOCRDPI         = 300
	defaultOCRPageSegMode = 3
	defaultOCRMinWidth    = 1600
	maxWorkers            = 64
	minColumns            = 8
)

// Metric model names accepted by pagination.metrics.
const (
	MetricsCells = "cells"
	MetricsFont  = "font"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir(),
			LogDir:  defaultLogDir,
		},
		Pagination: Pagination{
			LinesPerPage: defaultLinesPerPage,
			Metrics:      defaultMetrics,
			Columns:      defaultColumns,
			FontSize:     defaultFontSize,
			LineWidth:    defaultLineWidth,
		},
		Alignment: Alignment{
			Workers:      defaultWorkers,
			Threshold:    defaultThreshold,
			WindowTokens: defaultWindowTokens,
			StepTokens:   defaultStepTokens,
		},
		OCR: OCR{
			Languages:   []string{defaultOCRLanguage},
			DPI:         defaultOCRDPI,
			PageSegMode: defaultOCRPageSegMode,
			MinWidth:    defaultOCRMinWidth,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
