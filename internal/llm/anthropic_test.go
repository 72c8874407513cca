package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: anthropicModels["claude-haiku"]}
}

// anthropicReply writes a Messages API response with a single text block.
func anthropicReply(w http.ResponseWriter, text, stop string, in, out int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       anthropicModels["claude-haiku"],
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": in, "output_tokens": out},
	})
}

func TestAnthropicProvider_SendsPromptAndReadsReply(t *testing.T) {
	var body struct {
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		anthropicReply(w, `{"summary":"LEFT JOIN keeps unmatched rows."}`, "end_turn", 120, 40)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a data engineering interviewer.",
		Messages:  []Message{{Role: RoleUser, Content: "Explain LEFT JOIN."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(body.System) != 1 || body.System[0].Text != "You are a data engineering interviewer." {
		t.Errorf("system = %+v", body.System)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.MaxTokens != 256 {
		t.Errorf("request = %+v", body)
	}
	if resp.StopReason != "end" || resp.Usage.TotalTokens != 160 {
		t.Errorf("stop %q, usage %+v", resp.StopReason, resp.Usage)
	}
	if string(resp.Content) != `{"summary":"LEFT JOIN keeps unmatched rows."}` {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestAnthropicProvider_TruncatedStructuredOutput(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, `{"summary":"LEFT`, "max_tokens", 120, 8)
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Explain LEFT JOIN."}},
		Schema:    testSchema(),
		MaxTokens: 8,
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T (%v), want *ErrMaxTokensExceeded", err, err)
	}
}

func TestAnthropicProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		check  func(error) bool
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl) && rl.RetryAfter == 2*time.Second
		}},
		{"overloaded", http.StatusInternalServerError, "api_error", func(err error) bool {
			var down *ErrProviderUnavailable
			return errors.As(err, &down)
		}},
		{"bad key", http.StatusUnauthorized, "authentication_error", func(err error) bool {
			var rej *ErrRequestRejected
			return errors.As(err, &rej) && rej.StatusCode == http.StatusUnauthorized
		}},
		{"bad request", http.StatusBadRequest, "invalid_request_error", func(err error) bool {
			var rej *ErrRequestRejected
			return errors.As(err, &rej)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": tt.kind, "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "Explain LEFT JOIN."}},
				MaxTokens: 100,
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	for in, want := range map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	} {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}

	p := &AnthropicProvider{model: "claude-sonnet-4-20250514"}
	if p.ModelID() != "claude-sonnet-4-20250514" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestAnthropicParams(t *testing.T) {
	plain := anthropicParams("m", Request{
		Messages: []Message{
			{Role: RoleUser, Content: "q"},
			{Role: RoleAssistant, Content: "a"},
		},
	})
	if len(plain.System) != 0 || plain.Temperature.Valid() {
		t.Errorf("empty system/temperature should be left unset: %+v", plain)
	}
	if plain.MaxTokens != int64(maxTokens(Request{})) {
		t.Errorf("MaxTokens = %d, want default", plain.MaxTokens)
	}
	if len(plain.Messages) != 2 ||
		plain.Messages[0].Role != anthropic.MessageParamRoleUser ||
		plain.Messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("roles = %+v", plain.Messages)
	}

	structured := anthropicParams("m", Request{System: "s", Temperature: 0.3, Schema: testSchema()})
	if len(structured.System) != 1 || !structured.Temperature.Valid() {
		t.Errorf("system/temperature not set: %+v", structured)
	}
	if structured.OutputConfig.Format.Schema == nil {
		t.Error("schema should set the output format")
	}
}
