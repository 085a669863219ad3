package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/label-tracker/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Layout    bool   // pass -layout to pdftotext
	MaxPages  int    // 0 = no limit

	// ArtifactCacheDir holds uploaded bytes while they are being extracted.
	ArtifactCacheDir string
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TXT
	Method     string // "pdf-text" | "pdf-content" | "plain-text"
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

const (
	MethodPDFText    = "pdf-text"
	MethodPDFContent = "pdf-content"
	MethodPlainText  = "plain-text"
)

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, e.g. for a stub in tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	res.Confidence = heuristicConfidence(res.Text)
	e.logger.Info("ocr.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// ExtractBytes stages data under ArtifactCacheDir using name's extension, extracts it,
// and removes the staged copy.
func (e *Extractor) ExtractBytes(ctx context.Context, name string, data []byte) (ExtractionResult, error) {
	if err := os.MkdirAll(e.cfg.ArtifactCacheDir, 0o755); err != nil {
		return ExtractionResult{}, fmt.Errorf("create artifact dir: %w", err)
	}
	f, err := os.CreateTemp(e.cfg.ArtifactCacheDir, "upload-*"+strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("stage upload: %w", err)
	}
	staged := f.Name()
	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			e.logger.Warn("failed to remove staged upload", "path", staged, "error", err)
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return ExtractionResult{}, fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return ExtractionResult{}, fmt.Errorf("stage upload: %w", err)
	}
	return e.Extract(ctx, staged)
}

func (e *Extractor) extractPlain(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.TXT}, err
	}
	text := string(b)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return ExtractionResult{Text: text, Pages: 1, SourceType: constants.TXT, Method: MethodPlainText}, nil
}

// extractPDF prefers pdftotext and falls back to reading content streams in-process
// when the binary is missing, fails, or yields only whitespace.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.PDF}

	pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err == nil && hasText(pages) {
		res.Text, res.Pages = joinPages(pages), len(pages)
		res.Method = MethodPDFText
		return res, nil
	}
	if err != nil {
		e.logger.Warn("pdftotext failed; falling back to content streams", "path", path, "error", err)
		res.Warnings = append(res.Warnings, "pdftotext: "+err.Error())
	} else {
		res.Warnings = append(res.Warnings, "pdftotext produced no text")
	}

	pages, cerr := e.pdfContentText(path)
	if cerr != nil {
		e.logger.Error("pdf content extraction failed", "path", path, "error", cerr)
		return res, fmt.Errorf("extract pdf %s: %w", filepath.Base(path), cerr)
	}
	res.Text, res.Pages = joinPages(pages), len(pages)
	res.Method = MethodPDFContent
	return res, nil
}

// joinPages concatenates page texts in order, each followed by a newline.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
