package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(tableLLMRequests).
		Columns("sequence", "timestamp", "provider", "model", "purpose", "question_id",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.QuestionID,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) (LLMUsage, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(tableLLMRequests)
	query, args := b.Select(
		t.C("success"), entsql.Count("*"), entsql.Sum(t.C("input_tokens")), entsql.Sum(t.C("output_tokens")),
	).
		From(t).
		GroupBy(t.C("success")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return LLMUsage{}, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var u LLMUsage
	for rows.Next() {
		var success bool
		var n int
		var in, out int64
		if err := rows.Scan(&success, &n, &in, &out); err != nil {
			return LLMUsage{}, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.Requests += n
		if !success {
			u.Failures += n
		}
		u.InputTokens += int(in)
		u.OutputTokens += int(out)
	}
	if err := rows.Err(); err != nil {
		return LLMUsage{}, fmt.Errorf("query LLM usage: %w", err)
	}
	return u, nil
}
