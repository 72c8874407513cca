package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAICompatible("test-key", server.URL+"/v1", "gpt-4o-mini")
}

// sentChat is the part of a chat completion request the tests inspect.
type sentChat struct {
	Messages []struct {
		Role string `json:"role"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema *struct {
			Name   string `json:"name"`
			Strict bool   `json:"strict"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

// chatReply writes a chat completion with one choice.
func chatReply(w http.ResponseWriter, content string, finish openai.FinishReason) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	})
}

func TestOpenAIProvider_SystemPromptLeadsMessages(t *testing.T) {
	var got sentChat
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		chatReply(w, `{"summary":"A broadcast join ships the small table to every executor."}`, openai.FinishReasonStop)
	})

	resp, err := p.Generate(context.Background(), Request{
		System: "You are a data engineering interviewer.",
		Messages: []Message{
			{Role: RoleUser, Content: "Explain broadcast joins."},
			{Role: RoleAssistant, Content: "{}"},
			{Role: RoleUser, Content: "Shorter please."},
		},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(wantRoles) {
		t.Fatalf("sent %d messages, want %d", len(got.Messages), len(wantRoles))
	}
	for i, role := range wantRoles {
		if got.Messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, got.Messages[i].Role, role)
		}
	}
	if got.ResponseFormat != nil {
		t.Error("response_format should be omitted without a schema")
	}
	if resp.Usage != (Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}) || resp.StopReason != "end" {
		t.Errorf("usage %+v, stop %q", resp.Usage, resp.StopReason)
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		finish  openai.FinishReason
		check   func(error) bool
	}{
		{"valid", `{"name":"Spark","count":3}`, openai.FinishReasonStop, func(err error) bool { return err == nil }},
		{"missing required field", `{"name":"Spark"}`, openai.FinishReasonStop, func(err error) bool {
			var inv *ErrInvalidResponse
			return errors.As(err, &inv)
		}},
		{"cut off", `{"name":"Sp`, openai.FinishReasonLength, func(err error) bool {
			var maxTok *ErrMaxTokensExceeded
			return errors.As(err, &maxTok)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sentChat
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&got)
				chatReply(w, tt.content, tt.finish)
			})
			_, err := p.Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "Describe Spark."}},
				Schema:   testSchema(),
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
			if got.ResponseFormat == nil || got.ResponseFormat.JSONSchema == nil ||
				got.ResponseFormat.JSONSchema.Name != "test-object" || !got.ResponseFormat.JSONSchema.Strict {
				t.Errorf("response_format = %+v", got.ResponseFormat)
			}
		})
	}
}

func TestOpenAIProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{http.StatusBadGateway, func(err error) bool {
			var down *ErrProviderUnavailable
			return errors.As(err, &down)
		}},
		{http.StatusUnauthorized, func(err error) bool {
			var rej *ErrRequestRejected
			return errors.As(err, &rej) && rej.StatusCode == http.StatusUnauthorized
		}},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": http.StatusText(tt.status)},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "Describe Spark."}},
				MaxTokens: 100,
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Error("expected error without API key")
	}

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "http://localhost:11434/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" || p.baseURL != "http://localhost:11434/v1" {
		t.Errorf("model %q, base %q", p.ModelID(), p.baseURL)
	}
}
