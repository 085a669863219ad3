package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/label-tracker/constants"
	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/extract"
)

type Pipeline struct {
	TextExtractor extract.TextExtractor
	Log           *slog.Logger
}

func NewPipeline(tx extract.TextExtractor, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{TextExtractor: tx, Log: log}
}

// Run turns the document at path into label text. Unsupported formats are rejected
// before the extractor is invoked.
func (p *Pipeline) Run(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	if err := checkFormat(path); err != nil {
		return extract.TextExtractionResult{}, err
	}
	res, err := p.TextExtractor.Extract(ctx, path)
	if err != nil {
		p.Log.ErrorContext(ctx, "textextract.failed", "path", path, "err", err)
		return res, err
	}
	p.logOK(ctx, path, res)
	return res, nil
}

// RunBytes is Run for an in-memory upload. The extractor must also implement
// extract.BytesExtractor.
func (p *Pipeline) RunBytes(ctx context.Context, name string, data []byte) (extract.TextExtractionResult, error) {
	if err := checkFormat(name); err != nil {
		return extract.TextExtractionResult{}, err
	}
	bx, ok := p.TextExtractor.(extract.BytesExtractor)
	if !ok {
		return extract.TextExtractionResult{}, fmt.Errorf("%w: extractor cannot read in-memory uploads", common.ErrInternal)
	}
	res, err := bx.ExtractBytes(ctx, name, data)
	if err != nil {
		p.Log.ErrorContext(ctx, "textextract.failed", "name", name, "bytes", len(data), "err", err)
		return res, err
	}
	p.logOK(ctx, name, res)
	return res, nil
}

func (p *Pipeline) logOK(ctx context.Context, name string, res extract.TextExtractionResult) {
	p.Log.InfoContext(ctx, "textextract.ok",
		"name", filepath.Base(name),
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
	)
}

func checkFormat(name string) error {
	ext := constants.NormalizeExt(filepath.Ext(name))
	if constants.MapExtToFormat(ext) == "" {
		return fmt.Errorf("%w: unsupported format %q (allowed: pdf, txt)", common.ErrInvalidInput, ext)
	}
	return nil
}
