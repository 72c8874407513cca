package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://question-record.json"

// recordSchema is the shape every raw question record must satisfy before
// normalization. Aliases are accepted here and resolved later.
var recordSchema = map[string]any{
	"type":     "object",
	"required": []any{"question"},
	"properties": map[string]any{
		"id":         map[string]any{"type": []any{"integer", "string"}},
		"question":   map[string]any{"type": "string", "minLength": 1},
		"type":       map[string]any{"type": "string"},
		"stack":      map[string]any{"type": "string"},
		"source":     map[string]any{"type": "string"},
		"stacks":     stringList,
		"topic":      map[string]any{"type": "string"},
		"topics":     stringList,
		"tags":       stringList,
		"categories": stringList,
		"difficulty": map[string]any{"type": "string"},
		"options": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": []any{"string", "number", "boolean"}},
		},
		"answer":      map[string]any{"type": []any{"string", "integer"}},
		"answer_text": map[string]any{"type": "string"},
		"answerText":  map[string]any{"type": "string"},
		"explanation": map[string]any{"type": "string"},
	},
}

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

var (
	compileOnce    sync.Once
	compiledRecord *jsonschema.Schema
	compileErr     error
)

func compiledRecordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal record schema: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse record schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(recordSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add record schema: %w", err)
			return
		}
		compiledRecord, compileErr = c.Compile(recordSchemaURL)
	})
	return compiledRecord, compileErr
}

// validateRecord checks one decoded record against the record schema.
// The value is round-tripped through JSON so numbers and maps have the
// representation the validator expects.
func validateRecord(v any) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(jsonCompatible(v))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// jsonCompatible converts map[any]any values produced by YAML decoding
// into map[string]any so they can be JSON encoded.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonCompatible(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = jsonCompatible(val)
		}
		return out
	default:
		return v
	}
}
