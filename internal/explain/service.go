// Package explain produces model-written explanations for bank questions.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/llm"
)

// Explanation is the structured answer shown under a flashcard or a
// missed MCQ.
type Explanation struct {
	Summary    string `json:"summary"`
	WhyCorrect string `json:"why_correct"`
	WhyWrong   string `json:"why_wrong"`
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Explain call. Zero means no extra deadline.
	Timeout time.Duration
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   700,
		Temperature: 0.2,
		Timeout:     30 * time.Second,
	}
}

// Service explains questions and caches the results per question and
// chosen option for the life of the process.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[cacheKey]Explanation
}

type cacheKey struct {
	questionID string
	wrongKey   string
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		cache:    make(map[cacheKey]Explanation),
	}
}

// Explain returns an explanation of q. selectedKey is the option the user
// picked; it only matters when it is a wrong option of an MCQ.
func (s *Service) Explain(ctx context.Context, q *bank.Question, selectedKey string) (*Explanation, error) {
	if q == nil {
		return nil, errors.New("explain: nil question")
	}
	if !q.IsMCQ() || q.IsCorrect(selectedKey) {
		selectedKey = ""
	}
	key := cacheKey{questionID: q.ID, wrongKey: selectedKey}

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return &cached, nil
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithQuestion(llm.WithPurpose(ctx, "explain"), q.ID)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(q, selectedKey)}},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain %s: %w", q.ID, err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	if selectedKey == "" {
		out.WhyWrong = ""
	}

	s.mu.Lock()
	s.cache[key] = out
	s.mu.Unlock()
	return &out, nil
}

// Cached reports whether an explanation for the pair is already cached.
func (s *Service) Cached(q *bank.Question, selectedKey string) bool {
	if q == nil {
		return false
	}
	if !q.IsMCQ() || q.IsCorrect(selectedKey) {
		selectedKey = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cache[cacheKey{questionID: q.ID, wrongKey: selectedKey}]
	return ok
}
