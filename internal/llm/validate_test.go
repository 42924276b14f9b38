package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func bandSchema() *Schema {
	return &Schema{
		Name: "test-band",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question":   map[string]any{"type": "string", "minLength": 1},
				"difficulty": map[string]any{"type": "integer", "minimum": 1, "maximum": 20},
				"level":      map[string]any{"type": "string", "enum": []any{"Basic", "Intermediate", "Advanced", "Expert"}},
			},
			"required": []any{"question", "difficulty"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"question":"Define pitch","difficulty":4,"level":"Basic"}`, true},
		{"optional omitted", `{"question":"Define pitch","difficulty":4}`, true},
		{"missing required", `{"question":"Define pitch"}`, false},
		{"wrong type", `{"question":"Define pitch","difficulty":"four"}`, false},
		{"out of range", `{"question":"Define pitch","difficulty":25}`, false},
		{"bad enum", `{"question":"Define pitch","difficulty":4,"level":"Master"}`, false},
		{"empty string", `{"question":"","difficulty":4}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(bandSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestCheckContent_TruncationReportedAsMaxTokens(t *testing.T) {
	req := Request{Schema: bandSchema()}

	err := checkContent(req, json.RawMessage(`{"question":"Def`), StopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T", err)
	}

	err = checkContent(req, json.RawMessage(`{"question":"Def`), StopEnd)
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}

	if err := checkContent(Request{}, json.RawMessage(`plain text`), StopEnd); err != nil {
		t.Fatalf("expected no validation without schema, got: %v", err)
	}
}
