package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.SessionID == "" || data.Action == "" {
		return errors.New("save session event: session id and action are required")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var stacks any
	if len(data.Stacks) > 0 {
		b, err := json.Marshal(data.Stacks)
		if err != nil {
			return fmt.Errorf("marshal stack scores: %w", err)
		}
		stacks = string(b)
	}

	timerMode := data.TimerMode
	if timerMode == "" {
		timerMode = "none"
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "action", "mode", "timer_mode",
			"questions", "correct", "incorrect", "skipped", "score", "duration_secs", "stacks").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, data.Mode, timerMode,
			data.Questions, data.Correct, data.Incorrect, data.Skipped, data.Score, data.DurationSecs, stacks).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	if data.SessionID == "" || data.QuestionID == "" || data.Status == "" {
		return errors.New("save answer event: session id, question id and status are required")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(tableAnswerEvents).
		Columns("sequence", "timestamp", "session_id", "question_id", "stack", "topic",
			"difficulty", "selected_key", "status", "time_ms").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.QuestionID, data.Stack, data.Topic,
			data.Difficulty, data.SelectedKey, data.Status, data.TimeMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(tableSessionEvents)
	sel := b.Select(
		t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("action"), t.C("mode"),
		t.C("timer_mode"), t.C("questions"), t.C("correct"), t.C("incorrect"), t.C("skipped"),
		t.C("score"), t.C("duration_secs"), t.C("stacks"),
	).
		From(t).
		Where(entsql.EQ(t.C("action"), ActionEnd)).
		OrderBy(entsql.Desc(t.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var stacks sql.NullString
		err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Action, &rec.Mode,
			&rec.TimerMode, &rec.Questions, &rec.Correct, &rec.Incorrect, &rec.Skipped,
			&rec.Score, &rec.DurationSecs, &stacks,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		if stacks.Valid && stacks.String != "" {
			if err := json.Unmarshal([]byte(stacks.String), &rec.Stacks); err != nil {
				return nil, fmt.Errorf("decode stack scores: %w", err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	return out, nil
}

func (r *eventRepo) TopicAccuracy(ctx context.Context, stack string) ([]TopicAccuracy, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(tableAnswerEvents)
	sel := b.Select(t.C("stack"), t.C("topic"), t.C("status"), entsql.Count("*")).
		From(t).
		GroupBy(t.C("stack"), t.C("topic"), t.C("status")).
		OrderBy(t.C("stack"), t.C("topic"))
	if stack != "" {
		sel.Where(entsql.EQ(t.C("stack"), stack))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topic accuracy: %w", err)
	}
	defer rows.Close()

	type key struct{ stack, topic string }
	pos := make(map[key]int)
	var out []TopicAccuracy
	for rows.Next() {
		var st, topic, status string
		var n int
		if err := rows.Scan(&st, &topic, &status, &n); err != nil {
			return nil, fmt.Errorf("scan topic accuracy: %w", err)
		}
		k := key{st, topic}
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, TopicAccuracy{Stack: st, Topic: topic})
		}
		switch status {
		case "correct":
			out[i].Correct += n
			out[i].Attempted += n
		case "incorrect":
			out[i].Attempted += n
		case "skipped":
			out[i].Skipped += n
			out[i].Attempted += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query topic accuracy: %w", err)
	}
	return out, nil
}

func (r *eventRepo) Reset(ctx context.Context) error {
	b := entsql.Dialect(r.dialect)
	return r.seq.resetWith(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{tableAnswerEvents, tableSessionEvents, tableLLMRequests, tableSnapshots} {
			query, args := b.Delete(table).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
