package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/ocr"
)

type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

// Extract runs the extractor; any failure is reported as common.ErrExtraction.
func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return convert(r), common.ExtractionError(path, err)
}

func (a *OCRAdapter) ExtractBytes(ctx context.Context, name string, data []byte) (TextExtractionResult, error) {
	r, err := a.e.ExtractBytes(ctx, name, data)
	return convert(r), common.ExtractionError(name, err)
}

func convert(r ocr.ExtractionResult) TextExtractionResult {
	return TextExtractionResult{
		Text:       r.Text,
		Pages:      r.Pages,
		SourceType: r.SourceType,
		Method:     r.Method,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}
}
