package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

// BytesExtractor extracts text from an in-memory upload; name supplies the extension.
type BytesExtractor interface {
	ExtractBytes(ctx context.Context, name string, data []byte) (TextExtractionResult, error)
}

// TextExtractionResult carries per-page text in page order, each page followed by "\n".
type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "TXT"
	Method     string // "pdf-text" | "pdf-content" | "plain-text"
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}
