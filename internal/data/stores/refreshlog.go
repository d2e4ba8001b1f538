package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/catalog/internal/core/history"
	"github.com/colonyops/catalog/internal/data/db"
)

// RefreshLogStore implements history.Store using SQLite.
type RefreshLogStore struct {
	db     *db.DB
	retain int
}

var _ history.Store = (*RefreshLogStore)(nil)

// NewRefreshLogStore creates a SQLite-backed refresh log. When retain is
// positive, only the newest retain rows survive each Record.
func NewRefreshLogStore(db *db.DB, retain int) *RefreshLogStore {
	return &RefreshLogStore{db: db, retain: retain}
}

// Record persists a resolved refresh attempt and prunes old rows.
func (s *RefreshLogStore) Record(ctx context.Context, e history.Entry) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO refresh_log
				(id, reason, outcome, status_code, group_count, item_count, message, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Trigger, string(e.Outcome), e.StatusCode, e.Groups, e.Items, e.Message,
			e.StartedAt.UnixNano(), e.FinishedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert refresh log entry: %w", err)
		}

		if s.retain <= 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM refresh_log WHERE id NOT IN (
				SELECT id FROM refresh_log ORDER BY finished_at DESC, rowid DESC LIMIT ?
			)`, s.retain)
		if err != nil {
			return fmt.Errorf("prune refresh log: %w", err)
		}
		return nil
	})
}

// List returns up to limit entries ordered by newest first.
func (s *RefreshLogStore) List(ctx context.Context, limit int) ([]history.Entry, error) {
	query := `
		SELECT id, reason, outcome, status_code, group_count, item_count, message, started_at, finished_at
		FROM refresh_log
		ORDER BY finished_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list refresh log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []history.Entry
	for rows.Next() {
		var (
			e                 history.Entry
			outcome           string
			started, finished int64
		)
		if err := rows.Scan(&e.ID, &e.Trigger, &outcome, &e.StatusCode, &e.Groups, &e.Items, &e.Message, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan refresh log entry: %w", err)
		}
		e.Outcome = history.Outcome(outcome)
		e.StartedAt = time.Unix(0, started)
		e.FinishedAt = time.Unix(0, finished)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refresh log: %w", err)
	}

	return result, nil
}

// Get returns a single entry by ID.
func (s *RefreshLogStore) Get(ctx context.Context, id string) (history.Entry, error) {
	var (
		e                 history.Entry
		outcome           string
		started, finished int64
	)
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, reason, outcome, status_code, group_count, item_count, message, started_at, finished_at
		FROM refresh_log WHERE id = ?`, id,
	).Scan(&e.ID, &e.Trigger, &outcome, &e.StatusCode, &e.Groups, &e.Items, &e.Message, &started, &finished)
	if err != nil {
		return history.Entry{}, fmt.Errorf("get refresh log entry %s: %w", id, err)
	}
	e.Outcome = history.Outcome(outcome)
	e.StartedAt = time.Unix(0, started)
	e.FinishedAt = time.Unix(0, finished)
	return e, nil
}

// Clear deletes all entries.
func (s *RefreshLogStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM refresh_log"); err != nil {
		return fmt.Errorf("clear refresh log: %w", err)
	}
	return nil
}
