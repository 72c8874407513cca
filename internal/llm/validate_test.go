package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-object",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"count": map[string]any{"type": "integer", "minimum": 0},
				"key":   map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			},
			"required": []any{"name", "count"},
		},
	}
}

// verdictSchema mirrors the shape of a closed explanation object.
func verdictSchema() *Schema {
	return &Schema{
		Name: "test-verdict",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{"type": "string"},
				"options": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"key":     map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
							"correct": map[string]any{"type": "boolean"},
						},
						"required": []any{"key", "correct"},
					},
				},
			},
			"required":             []any{"summary", "options"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"all fields", testSchema(), `{"name":"Spark","count":10,"key":"A"}`, false},
		{"optional omitted", testSchema(), `{"name":"Airflow","count":8}`, false},
		{"missing required", testSchema(), `{"name":"Python"}`, true},
		{"wrong type", testSchema(), `{"name":"Java","count":"ten"}`, true},
		{"below minimum", testSchema(), `{"name":"Kafka","count":-1}`, true},
		{"enum miss", testSchema(), `{"name":"SQL","count":9,"key":"D"}`, true},
		{"malformed", testSchema(), `{not json}`, true},
		{"empty", testSchema(), ``, true},
		{"nil schema", nil, `{"anything":"goes"}`, false},
		{"nested ok", verdictSchema(), `{"summary":"s","options":[{"key":"A","correct":true},{"key":"B","correct":false}]}`, false},
		{"nested item invalid", verdictSchema(), `{"summary":"s","options":[{"key":"E","correct":true}]}`, true},
		{"extra property", verdictSchema(), `{"summary":"s","options":[],"confidence":0.9}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %T (%v), want *ErrInvalidResponse", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("Content = %q, want the raw reply", inv.Content)
			}
		})
	}
}

func TestValidateResponse_CachesBySchemaName(t *testing.T) {
	s := verdictSchema()
	s.Name = "test-verdict-cache"
	raw := json.RawMessage(`{"summary":"s","options":[]}`)
	for range 2 {
		if err := validateResponse(s, raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Error("compiled schema should be cached")
	}
}

func TestCheckStructured(t *testing.T) {
	req := Request{Schema: testSchema()}

	if err := checkStructured(Request{}, json.RawMessage(`plain text`), "max_tokens"); err != nil {
		t.Fatalf("plain text requests should pass, got: %v", err)
	}

	err := checkStructured(req, json.RawMessage(`{"name":"Sp`), "max_tokens")
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) || string(maxTok.Content) != `{"name":"Sp` {
		t.Fatalf("err = %T, want *ErrMaxTokensExceeded with the partial body", err)
	}

	if err := checkStructured(req, json.RawMessage(`{"name":"Spark","count":1}`), "end"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
