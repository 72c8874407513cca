package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Repository loads question banks from a Source.
type Repository struct {
	src    Source
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used to report skipped documents and records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRepository creates a Repository over src.
func NewRepository(src Source, opts ...Option) *Repository {
	r := &Repository{src: src, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadManifest fetches and parses the stack manifest. A missing or
// malformed manifest yields an empty Manifest; the error is logged.
func (r *Repository) LoadManifest(ctx context.Context) Manifest {
	data, err := r.src.Manifest(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("load manifest", "err", err)
		}
		return Manifest{}
	}
	m, err := ParseManifest(data)
	if err != nil {
		r.logger.Warn("load manifest", "err", err)
		return Manifest{}
	}
	return m
}

// LoadQuestions returns every question of kind across the stacks whose
// manifest entry lists that kind, in manifest order. Missing or unparsable
// stack documents are logged and contribute zero questions. If ctx is
// cancelled mid-load the questions loaded so far are returned.
func (r *Repository) LoadQuestions(ctx context.Context, kind Kind) []*Question {
	m := r.LoadManifest(ctx)

	var out []*Question
	for _, stack := range m.Stacks {
		if ctx.Err() != nil {
			return out
		}
		if !stack.HasKind(kind) {
			continue
		}
		qs, err := r.loadStack(ctx, stack.Name, kind)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return out
			case errors.Is(err, ErrNotFound):
				r.logger.Warn("stack document missing", "stack", stack.Name, "kind", kind)
			default:
				r.logger.Warn("skip stack document", "stack", stack.Name, "kind", kind, "err", err)
			}
			continue
		}
		out = append(out, qs...)
	}
	return out
}

func (r *Repository) loadStack(ctx context.Context, stack string, kind Kind) ([]*Question, error) {
	data, err := r.src.Document(ctx, stack, kind)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, stack, kind, r.logger)
}

// ParseDocument decodes a stack document: a sequence of question records.
// Records failing validation are logged and skipped. Qualified IDs are
// unique within the result; a repeated id gets a "#<position>" suffix.
func ParseDocument(data []byte, stack string, kind Kind, logger *slog.Logger) ([]*Question, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", stack, kind.FileName(), err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	seq := root.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse %s/%s: expected sequence, got %s", stack, kind.FileName(), nodeKind(seq))
	}

	out := make([]*Question, 0, len(seq.Content))
	seen := make(map[string]bool, len(seq.Content))
	for i, item := range seq.Content {
		var generic any
		if err := item.Decode(&generic); err != nil {
			logger.Warn("skip record", "stack", stack, "kind", kind, "index", i, "err", err)
			continue
		}
		if err := validateRecord(generic); err != nil {
			logger.Warn("skip record", "stack", stack, "kind", kind, "index", i, "err", err)
			continue
		}

		var raw rawRecord
		if err := item.Decode(&raw); err != nil {
			logger.Warn("skip record", "stack", stack, "kind", kind, "index", i, "err", err)
			continue
		}
		q := raw.normalize(stack, kind, i)
		if q == nil {
			logger.Warn("skip record without options", "stack", stack, "kind", kind, "index", i)
			continue
		}
		if seen[q.ID] {
			id := uniqueID(q.ID, i, seen)
			logger.Warn("repeated question id", "stack", stack, "kind", kind, "index", i, "id", q.ID, "renamed", id)
			q.ID = id
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, nil
}

func uniqueID(id string, index int, seen map[string]bool) string {
	for n := index + 1; ; n++ {
		if c := fmt.Sprintf("%s#%d", id, n); !seen[c] {
			return c
		}
	}
}
