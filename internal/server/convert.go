package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/label-tracker/constants"
	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
	"github.com/joseph-ayodele/label-tracker/internal/schema"
)

func recordMap(rec entity.Record) map[string]any {
	m := make(map[string]any, len(constants.RecordFields))
	for _, f := range constants.RecordFields {
		m[f] = rec.Get(f)
	}
	return m
}

func orderMap(o *entity.Order) map[string]any {
	m := recordMap(o.Record)
	m["id"] = o.ID
	return m
}

func resultMap(res processor.Result) map[string]any {
	report := make(map[string]any, len(res.Report))
	for f, st := range res.Report {
		report[f] = string(st)
	}
	warnings := make([]any, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w)
	}
	return map[string]any{
		"record":       recordMap(res.Record),
		"report":       report,
		"text":         res.Text,
		"needs_review": res.NeedsReview,
		"method":       res.Method,
		"pages":        res.Pages,
		"confidence":   float64(res.Confidence),
		"warnings":     warnings,
	}
}

// recordFromStruct validates a client-supplied Struct against the record schema.
func recordFromStruct(s *structpb.Struct) (entity.Record, error) {
	if s == nil {
		return entity.Record{}, fmt.Errorf("%w: record is required", common.ErrInvalidInput)
	}
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return schema.DecodeRecord(b)
}
