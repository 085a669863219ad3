// Package parsefields recovers structured order fields from the text of a rendered
// shipping label. Every rule is an independent pure function over either the full
// text or the flattened address block, so losing one anchor only empties its own field.
package parsefields

import (
	"github.com/joseph-ayodele/label-tracker/constants"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

// Extract returns the record recovered from text. It never fails: a field that
// cannot be found is left as "". The same text always yields the same record.
func Extract(text string) entity.Record {
	rec, _ := ExtractWithReport(text)
	return rec
}

// ExtractWithReport is Extract plus a per-field status describing how each value
// was obtained (MATCHED, FALLBACK or MISSING).
func ExtractWithReport(text string) (entity.Record, Report) {
	var rec entity.Record
	report := make(Report, len(constants.RecordFields))

	rec.Name = extractName(text)
	rec.Address = extractAddressBlock(text)
	rec.Pincode = extractPincode(rec.Address)

	city, state, fallback := extractCityState(rec.Address, rec.Pincode)
	rec.City, rec.State = city, state

	rec.OrderNo = extractOrderNo(text)
	rec.OrderDate = extractOrderDate(text)

	lines := splitLines(text)
	rec.ProductDescription = extractDescription(lines)
	rec.Price = extractPrice(lines)

	for _, f := range constants.RecordFields {
		switch {
		case rec.Get(f) == "":
			report[f] = constants.FieldMissing
		case fallback && (f == constants.FieldCity || f == constants.FieldState):
			report[f] = constants.FieldFallback
		default:
			report[f] = constants.FieldMatched
		}
	}
	return rec, report
}
