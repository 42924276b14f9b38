package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

const vivaJSON = `{"question":"What is an echo?","answer":"A reflected sound","difficulty":4}`

func vivaSchema(name string) *Schema {
	return &Schema{
		Name: name,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question":   map[string]any{"type": "string"},
				"answer":     map[string]any{"type": "string"},
				"difficulty": map[string]any{"type": "integer"},
			},
			"required": []any{"question", "answer"},
		},
	}
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(text, stopReason string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, jsonHandler(http.StatusOK, anthropicMessage(vivaJSON, "end_turn")))

	req := UserPrompt("You are a viva examiner.", "Generate a question.")
	req.MaxTokens = 256
	req.Schema = vivaSchema("anthropic-viva")

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Fatalf("usage = %+v, want 50 in / 80 total", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("stop reason = %q, want %q", resp.StopReason, StopEnd)
	}

	var got struct{ Question string }
	if err := resp.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Question != "What is an echo?" {
		t.Fatalf("question = %q", got.Question)
	}
}

func TestAnthropicProvider_TruncatedReply(t *testing.T) {
	p := newTestAnthropicProvider(t, jsonHandler(http.StatusOK, anthropicMessage(`{"question":"What is`, "max_tokens")))

	req := UserPrompt("", "Generate a question.")
	req.MaxTokens = 8
	req.Schema = vivaSchema("anthropic-viva")

	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusUnauthorized, func(err error) bool { var e *ErrRequestRejected; return errors.As(err, &e) }},
	}

	for _, tt := range tests {
		body := map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": http.StatusText(tt.status)},
		}
		p := newTestAnthropicProvider(t, jsonHandler(tt.status, body))
		_, err := p.Generate(context.Background(), UserPrompt("", "test"))
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: unexpected error %T (%v)", tt.status, err, err)
		}
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet", "claude-sonnet-4-5-20250929"},
		{"claude-opus-4-5", "claude-opus-4-5"}, // pass-through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, anthropicModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func openAICompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
		name:   ProviderOpenAI,
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var sent struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		ResponseFormat *struct {
			JSONSchema struct {
				Name string `json:"name"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		jsonHandler(http.StatusOK, openAICompletion(vivaJSON, "stop"))(w, r)
	}

	p := newTestOpenAIProvider(t, handler)
	req := UserPrompt("You are a viva examiner.", "Generate a question.")
	req.Schema = vivaSchema("openai-viva")

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("messages = %+v, want system then user", sent.Messages)
	}
	if sent.ResponseFormat == nil || sent.ResponseFormat.JSONSchema.Name != "openai-viva" {
		t.Fatalf("response format not set: %+v", sent.ResponseFormat)
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, jsonHandler(http.StatusOK, openAICompletion(`{"answer":"only"}`, "stop")))
	req := UserPrompt("", "Generate a question.")
	req.Schema = vivaSchema("openai-viva")

	_, err := p.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusBadGateway, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusBadRequest, func(err error) bool { var e *ErrRequestRejected; return errors.As(err, &e) }},
	}

	for _, tt := range tests {
		body := map[string]any{"error": map[string]any{"type": "error", "message": http.StatusText(tt.status)}}
		p := newTestOpenAIProvider(t, jsonHandler(tt.status, body))
		_, err := p.Generate(context.Background(), UserPrompt("", "test"))
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: unexpected error %T (%v)", tt.status, err, err)
		}
	}
}

func TestOpenRouterProvider(t *testing.T) {
	var title string
	handler := func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		jsonHandler(http.StatusOK, openAICompletion(vivaJSON, "stop"))(w, r)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-haiku-4.5",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderOpenRouter {
		t.Errorf("name = %q, want openrouter", p.Name())
	}
	if p.ModelID() != "anthropic/claude-haiku-4.5" {
		t.Errorf("model = %q, want pass-through", p.ModelID())
	}

	if _, err := p.Generate(context.Background(), UserPrompt("", "hi")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if title != "EchoLearn" {
		t.Errorf("X-Title header = %q, want EchoLearn", title)
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string"},
						"difficulty": map[string]any{"type": "integer"},
						"level":      map[string]any{"type": "string", "enum": []any{"Basic", "Expert"}},
					},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)
	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	items := schema.Properties["questions"].Items
	if schema.Properties["questions"].Type != "ARRAY" || items == nil {
		t.Fatalf("questions should be an ARRAY with items")
	}
	if items.Properties["difficulty"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER difficulty, got %s", items.Properties["difficulty"].Type)
	}
	if len(items.Properties["level"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(items.Properties["level"].Enum))
	}
	if len(schema.Required) != 1 {
		t.Fatalf("expected 1 required field, got %d", len(schema.Required))
	}
}

func TestGeminiModelMapping(t *testing.T) {
	if got := resolveModel("gemini-flash", geminiModels); got != "gemini-2.5-flash" {
		t.Errorf("gemini-flash resolved to %q", got)
	}
	if got := resolveModel("gemini-2.0-flash", geminiModels); got != "gemini-2.0-flash" {
		t.Errorf("pass-through resolved to %q", got)
	}
}
