package processor

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
	"github.com/joseph-ayodele/label-tracker/internal/extract"
	parse "github.com/joseph-ayodele/label-tracker/internal/pipeline/parsefields"
	"github.com/joseph-ayodele/label-tracker/internal/pipeline/textextract"
	"github.com/joseph-ayodele/label-tracker/internal/repository"
	"github.com/joseph-ayodele/label-tracker/internal/schema"
)

// Result is what one processed document yields before the user decides to save it.
type Result struct {
	Text        string        `json:"text"`
	Record      entity.Record `json:"record"`
	Report      parse.Report  `json:"report"`
	NeedsReview bool          `json:"needs_review"`
	Method      string        `json:"method"`
	Pages       int           `json:"pages"`
	Confidence  float32       `json:"confidence"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// Processor coordinates text extraction then field extraction, and persists
// records only when asked to.
type Processor struct {
	Logger *slog.Logger
	Text   *textextract.Pipeline
	Parse  *parse.Pipeline
	Orders repository.OrderRepository
}

func NewProcessor(logger *slog.Logger, text *textextract.Pipeline, parse *parse.Pipeline, orders repository.OrderRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Parse: parse, Orders: orders}
}

// ProcessFile extracts text from the document at path and the record from that text.
// Nothing is stored.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	res, err := p.Text.Run(ctx, path)
	if err != nil {
		p.Logger.ErrorContext(ctx, "processor.text.failed", "path", path, "err", err)
		return Result{}, err
	}
	return p.fields(ctx, res), nil
}

// ProcessBytes is ProcessFile for an uploaded document held in memory.
func (p *Processor) ProcessBytes(ctx context.Context, name string, data []byte) (Result, error) {
	res, err := p.Text.RunBytes(ctx, name, data)
	if err != nil {
		p.Logger.ErrorContext(ctx, "processor.text.failed", "name", name, "err", err)
		return Result{}, err
	}
	return p.fields(ctx, res), nil
}

// ProcessText runs only the field stage over already-extracted text.
func (p *Processor) ProcessText(ctx context.Context, text string) Result {
	return p.fields(ctx, extract.TextExtractionResult{Text: text})
}

func (p *Processor) fields(ctx context.Context, tr extract.TextExtractionResult) Result {
	fr := p.Parse.Run(ctx, tr.Text)
	return Result{
		Text:        tr.Text,
		Record:      fr.Record,
		Report:      fr.Report,
		NeedsReview: fr.NeedsReview,
		Method:      tr.Method,
		Pages:       tr.Pages,
		Confidence:  tr.Confidence,
		Warnings:    tr.Warnings,
	}
}

// Save validates rec and appends it to the store. Every call creates a new row.
func (p *Processor) Save(ctx context.Context, rec entity.Record) (*entity.Order, error) {
	if err := schema.ValidateRecord(rec); err != nil {
		p.Logger.WarnContext(ctx, "processor.save.invalid", "order_no", rec.OrderNo, "err", err)
		return nil, err
	}
	id, err := p.Orders.Insert(ctx, rec)
	if err != nil {
		p.Logger.ErrorContext(ctx, "processor.save.failed", "order_no", rec.OrderNo, "err", err)
		return nil, err
	}
	p.Logger.InfoContext(ctx, "processor.save.ok", "id", id, "order_no", rec.OrderNo)
	return &entity.Order{ID: id, Record: rec}, nil
}

// List returns saved orders, newest first.
func (p *Processor) List(ctx context.Context) ([]*entity.Order, error) {
	return p.Orders.ListAll(ctx)
}
