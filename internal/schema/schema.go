package schema

import (
	"github.com/joseph-ayodele/label-tracker/constants"
)

// MaxFieldLength caps any single field of a client-submitted record. Records produced
// by the extractor are never length-checked; a label without a return notice yields an
// address running to the end of the document.
const MaxFieldLength = 4096

// BuildRecordJSONSchema returns the JSON-Schema (draft 2020-12 subset) for a label record
// as a generic map. Every field is optional and may be "", but must be a string when present.
func BuildRecordJSONSchema() map[string]any {
	return buildSchema(0)
}

// BuildSubmittedRecordJSONSchema is BuildRecordJSONSchema with every field capped at
// MaxFieldLength runes.
func BuildSubmittedRecordJSONSchema() map[string]any {
	return buildSchema(MaxFieldLength)
}

func buildSchema(maxLength int) map[string]any {
	props := make(map[string]any, len(constants.RecordFields))
	for _, f := range constants.RecordFields {
		props[f] = textProp(maxLength)
	}
	address := textProp(maxLength)
	address["pattern"] = `^[^\n]*$` // flattened, never multi-line
	props[constants.FieldAddress] = address
	props[constants.FieldPincode] = map[string]any{
		"type":    "string",
		"pattern": `^([0-9]{6})?$`,
	}

	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func textProp(maxLength int) map[string]any {
	p := map[string]any{"type": "string"}
	if maxLength > 0 {
		p["maxLength"] = maxLength
	}
	return p
}
