package parsefields

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

// Result is the output of the field stage for one document.
type Result struct {
	Record      entity.Record
	Report      Report
	NeedsReview bool
	Duration    time.Duration
}

// Pipeline is the field stage: text -> record. It only adds logging around Extract.
type Pipeline struct {
	Logger *slog.Logger
}

func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Logger: logger}
}

// Run extracts the record from text. It never returns an error; unrecognised
// text produces an all-empty record flagged for review.
func (p *Pipeline) Run(ctx context.Context, text string) Result {
	start := time.Now()
	rec, report := ExtractWithReport(text)
	res := Result{
		Record:      rec,
		Report:      report,
		NeedsReview: report.NeedsReview(),
		Duration:    time.Since(start),
	}

	p.Logger.InfoContext(ctx, "parsefields.ok",
		"text_bytes", len(text),
		"order_no", rec.OrderNo,
		"pincode", rec.Pincode,
		"missing", report.Missing(),
		"fallbacks", report.Fallbacks(),
		"needs_review", res.NeedsReview,
	)
	return res
}
