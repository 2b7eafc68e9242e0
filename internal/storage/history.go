package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fmkparty/fmk/internal/game"
	"github.com/fmkparty/fmk/internal/person"
)

// HistoryEntry is one finished session as stored in history.
type HistoryEntry struct {
	ID           string
	Mode         game.Mode
	CategoryID   string
	CategoryName string
	Players      []person.Player
	Rounds       []game.Round
	TotalRounds  int
	PlayedAt     time.Time
}

// SaveSession writes a finished session to history. Satisfies
// game.HistoryStore.
func (s *Store) SaveSession(ctx context.Context, session *game.Session) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}

	playersJSON, err := json.Marshal(session.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	roundsJSON, err := json.Marshal(session.Rounds)
	if err != nil {
		return fmt.Errorf("encode rounds: %w", err)
	}
	playedAt := session.CompletedAt
	if playedAt.IsZero() {
		playedAt = session.StartedAt
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_history (id, mode, category_id, category_name,
			players, rounds, total_rounds, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, string(session.Mode), session.CategoryID, session.CategoryName,
		string(playersJSON), string(roundsJSON), len(session.Rounds), toMillis(playedAt))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// History returns all history entries, newest first.
func (s *Store) History(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, category_id, category_name, players, rounds, total_rounds, played_at
		FROM game_history ORDER BY played_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e           HistoryEntry
			mode        string
			playersJSON string
			roundsJSON  string
			playedAt    int64
		)
		if err := rows.Scan(&e.ID, &mode, &e.CategoryID, &e.CategoryName,
			&playersJSON, &roundsJSON, &e.TotalRounds, &playedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(playersJSON), &e.Players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		if err := json.Unmarshal([]byte(roundsJSON), &e.Rounds); err != nil {
			return nil, fmt.Errorf("decode rounds: %w", err)
		}
		e.Mode = game.Mode(mode)
		e.PlayedAt = fromMillis(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteHistory removes one entry.
func (s *Store) DeleteHistory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM game_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearHistory removes every entry.
func (s *Store) ClearHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
