// Package schema validates label records, typically ones submitted or corrected by a
// client, against the record JSON-Schema before they are persisted.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
)

// compiledSchema compiles its schema on first use.
type compiledSchema struct {
	build func() map[string]any
	once  sync.Once
	s     *jsonschema.Schema
	err   error
}

func (c *compiledSchema) get() (*jsonschema.Schema, error) {
	c.once.Do(func() {
		c.s, c.err = compile(c.build())
	})
	return c.s, c.err
}

var (
	recordSchema    = &compiledSchema{build: BuildRecordJSONSchema}
	submittedSchema = &compiledSchema{build: BuildSubmittedRecordJSONSchema}
)

func compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// ValidateRecordJSON validates a raw, client-submitted JSON document against the
// record schema, including the per-field length cap.
// Failures wrap common.ErrValidation; malformed JSON wraps common.ErrInvalidInput.
func ValidateRecordJSON(data []byte) error {
	return validateJSON(submittedSchema, data)
}

func validateJSON(c *compiledSchema, data []byte) error {
	s, err := c.get()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: unmarshal record: %v", common.ErrInvalidInput, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: record does not match schema: %v", common.ErrValidation, err)
	}
	return nil
}

// ValidateRecord checks the shape of an in-memory record before it is stored. It
// applies no length cap, so anything the extractor produces passes.
func ValidateRecord(rec entity.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return validateJSON(recordSchema, b)
}

// DecodeRecord validates a client-submitted record and decodes it.
func DecodeRecord(data []byte) (entity.Record, error) {
	var rec entity.Record
	if err := ValidateRecordJSON(data); err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: decode record: %v", common.ErrInvalidInput, err)
	}
	return rec, nil
}
