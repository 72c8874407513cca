package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/stackprep/internal/store"
)

// LoggingProvider records every request as an llm_request_events row.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

// WithLogging wraps p so each Generate call is appended to repo. name is
// the provider name stored with the event.
func WithLogging(p Provider, name string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: name, repo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:   l.provider,
		Model:      l.inner.ModelID(),
		Purpose:    PurposeFrom(ctx),
		QuestionID: QuestionFrom(ctx),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request outcome stands even when the event can't be stored.
	if logErr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn("failed to log LLM request event", "err", logErr)
	}

	l.logger.Debug("llm request",
		"provider", data.Provider, "model", data.Model, "purpose", data.Purpose,
		"latency_ms", data.LatencyMs, "ok", data.Success)

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
