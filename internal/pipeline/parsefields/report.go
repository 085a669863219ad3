package parsefields

import (
	"github.com/joseph-ayodele/label-tracker/constants"
)

// Report maps each record field name to how its value was obtained.
type Report map[string]constants.FieldStatus

// review-critical fields; a label missing any of these should be looked at by a person.
var criticalFields = []string{
	constants.FieldName,
	constants.FieldAddress,
	constants.FieldPincode,
	constants.FieldOrderNo,
}

// Status returns the status for field, MISSING when the report has no entry.
func (r Report) Status(field string) constants.FieldStatus {
	if s, ok := r[field]; ok {
		return s
	}
	return constants.FieldMissing
}

// Matched lists fields recovered by their primary rule, in column order.
func (r Report) Matched() []string { return r.fields(constants.FieldMatched) }

// Fallbacks lists fields filled by a positional heuristic, in column order.
func (r Report) Fallbacks() []string { return r.fields(constants.FieldFallback) }

// Missing lists empty fields, in column order.
func (r Report) Missing() []string { return r.fields(constants.FieldMissing) }

// NeedsReview is true when a critical field is missing or any fallback was used.
func (r Report) NeedsReview() bool {
	for _, f := range criticalFields {
		if r.Status(f) == constants.FieldMissing {
			return true
		}
	}
	return len(r.Fallbacks()) > 0
}

func (r Report) fields(want constants.FieldStatus) []string {
	out := []string{}
	for _, f := range constants.RecordFields {
		if r.Status(f) == want {
			out = append(out, f)
		}
	}
	return out
}
