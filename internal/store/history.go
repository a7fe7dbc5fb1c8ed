package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/versefinder/versefinder/internal/models"
)

// Record writes one history entry for userID and stamps it with the server
// time. With an existingID the entry is updated in place (an edit of an
// earlier attempt); otherwise a new entry is created with a fresh id.
func (s *Store) Record(ctx context.Context, userID string, entry models.HistoryEntry, existingID string) (models.HistoryEntry, error) {
	entry.UserID = userID
	entry.Time = s.timestamp()

	if existingID != "" {
		entry.ID = existingID
		result, err := s.db.ExecContext(ctx, `
			UPDATE history_entries
			SET story = ?, scripture = ?, scripture_text = ?, time = ?
			WHERE id = ? AND user_id = ?`,
			entry.Story, entry.Scripture, entry.ScriptureText, entry.Time, existingID, userID)
		if err != nil {
			return models.HistoryEntry{}, fmt.Errorf("failed to update history entry: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return models.HistoryEntry{}, fmt.Errorf("failed to check affected rows: %w", err)
		}
		if rows == 0 {
			return models.HistoryEntry{}, ErrEntryNotFound
		}
		return entry, nil
	}

	entry.ID = s.newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_entries (id, user_id, story, scripture, scripture_text, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, userID, entry.Story, entry.Scripture, entry.ScriptureText, entry.Time)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to add history entry: %w", err)
	}
	return entry, nil
}

// Exists reports whether userID owns a history entry with the given id.
func (s *Store) Exists(ctx context.Context, userID, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM history_entries WHERE id = ? AND user_id = ?", id, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up history entry: %w", err)
	}
	return true, nil
}

// Get returns a single history entry owned by userID.
func (s *Store) Get(ctx context.Context, userID, id string) (models.HistoryEntry, error) {
	var entry models.HistoryEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, story, scripture, scripture_text, time
		FROM history_entries
		WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Story,
		&entry.Scripture,
		&entry.ScriptureText,
		&entry.Time,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HistoryEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to read history entry: %w", err)
	}
	return entry, nil
}

// List returns up to limit entries for userID, newest first.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, story, scripture, scripture_text, time
		FROM history_entries
		WHERE user_id = ?
		ORDER BY time DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Story,
			&entry.Scripture,
			&entry.ScriptureText,
			&entry.Time,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}

// Count returns how many history entries userID has.
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM history_entries WHERE user_id = ?", userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
