package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RecordQuery appends one executed input line to the history.
func (s *Store) RecordQuery(ctx context.Context, sessionID, query string, duration time.Duration, rows int64, execErr error) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var errorPtr *string
	if execErr != nil {
		msg := execErr.Error()
		errorPtr = &msg
	}

	s.logger.Debug("recording query", slog.String("session", sessionID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, session_id, query, executed_at, duration_ms, rows, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		generateID(), sessionID, query, time.Now().UTC(), duration.Milliseconds(), rows, errorPtr,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit history records, oldest first.
func (s *Store) RecentHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	// rowid breaks executed_at ties in insertion order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, query, executed_at, duration_ms, rows, error
		 FROM history ORDER BY executed_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var durationMS int64
		var errMsg *string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Query, &rec.ExecutedAt, &durationMS, &rec.Rows, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if errMsg != nil {
			rec.Error = *errMsg
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	// Newest-first from the query, oldest-first for display.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
