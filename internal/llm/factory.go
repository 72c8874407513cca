package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/stackprep/internal/store"
)

// NewProvider builds the configured provider wrapped with retry and, when
// repo is non-nil, request logging. Each attempt is logged separately.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo, logger)
	}
	return WithRetry(base, cfg.Retry, logger), nil
}
