package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okExplanation = MockResponse{Content: json.RawMessage(`{"explanation":"ok"}`)}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RetryConfig
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			cfg:       fastRetry(),
			responses: []MockResponse{okExplanation},
			wantCalls: 1,
		},
		{
			name:      "outage then success",
			cfg:       fastRetry(),
			responses: []MockResponse{unavailable(), okExplanation},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			cfg:       fastRetry(),
			responses: []MockResponse{unavailable(), unavailable(), unavailable(), okExplanation},
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name: "rate limit waits then succeeds",
			cfg:  fastRetry(),
			responses: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				okExplanation,
			},
			wantCalls: 2,
		},
		{
			name: "invalid response retried once",
			cfg:  fastRetry(),
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("bad json")}},
				{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("bad json")}},
				okExplanation,
			},
			wantErr:   true,
			wantCalls: 2,
		},
		{
			name: "rejected request not retried",
			cfg:  fastRetry(),
			responses: []MockResponse{
				{Err: &ErrRequestRejected{StatusCode: 401, Err: errors.New("bad key")}},
				okExplanation,
			},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "zero attempts means one",
			cfg:       RetryConfig{},
			responses: []MockResponse{unavailable(), okExplanation},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, tt.cfg, nil).Generate(context.Background(), Request{})
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_MaxTokensReturnedAsIs(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"expl`)}})

	_, err := WithRetry(mock, fastRetry(), nil).Generate(context.Background(), Request{})

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T, want *ErrMaxTokensExceeded", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_CancelledContextStopsBackoff(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), okExplanation)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg, nil).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_LogsEachBackoff(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	mock := NewMockProvider(unavailable(), unavailable(), okExplanation)

	if _, err := WithRetry(mock, fastRetry(), logger).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(buf.String(), "retrying"); n != 2 {
		t.Fatalf("logged %d retries, want 2:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "model=mock") {
		t.Errorf("log missing model: %s", buf.String())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry(), nil).ModelID(); got != "mock" {
		t.Fatalf("ModelID() = %q, want mock", got)
	}
}
