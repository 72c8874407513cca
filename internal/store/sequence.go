package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequenceCounter hands out the sequence number shared by every event
// table, so a session's end event sorts after its answers and snapshots
// sort against both. It is a single-row table driven with raw SQL valid on
// SQLite and Postgres; UPDATE ... RETURNING keeps the increment atomic and
// mu serializes callers within the process.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

const (
	tableSequence = "global_sequence"

	createSequenceSQL = `CREATE TABLE IF NOT EXISTS ` + tableSequence + ` (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	next_val BIGINT NOT NULL DEFAULT 1
)`
	seedSequenceSQL  = `INSERT INTO ` + tableSequence + ` (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`
	nextSequenceSQL  = `UPDATE ` + tableSequence + ` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
	resetSequenceSQL = `UPDATE ` + tableSequence + ` SET next_val = 1 WHERE id = 1`
)

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	for _, stmt := range []string{createSequenceSQL, seedSequenceSQL} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("init %s: %w", tableSequence, err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next returns the next sequence number, starting at 1.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	if err := sc.db.QueryRowContext(ctx, nextSequenceSQL).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// resetWith runs wipe inside one transaction and, if it succeeds, restarts
// the counter at 1 in the same transaction. Next blocks until it returns.
func (sc *sequenceCounter) resetWith(ctx context.Context, wipe func(*sql.Tx) error) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if err := wipe(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, resetSequenceSQL); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}
	return tx.Commit()
}
