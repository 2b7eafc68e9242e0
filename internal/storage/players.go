package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

// SavePlayer upserts a saved player profile.
func (s *Store) SavePlayer(ctx context.Context, p person.SavedPlayer) error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("player id and name are required")
	}
	filterJSON, err := json.Marshal(p.GenderFilter)
	if err != nil {
		return fmt.Errorf("encode gender filter: %w", err)
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var lastPlayed any
	if !p.LastPlayedAt.IsZero() {
		lastPlayed = toMillis(p.LastPlayedAt)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_players (id, name, avatar_color, gender_filter,
			age_min, age_max, created_at, last_played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			avatar_color = excluded.avatar_color,
			gender_filter = excluded.gender_filter,
			age_min = excluded.age_min,
			age_max = excluded.age_max,
			last_played_at = excluded.last_played_at`,
		p.ID, p.Name, p.AvatarColor, string(filterJSON),
		p.AgeRange[0], p.AgeRange[1], toMillis(createdAt), lastPlayed)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

// Players returns every saved player, oldest first.
func (s *Store) Players(ctx context.Context) ([]person.SavedPlayer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, avatar_color, gender_filter, age_min, age_max, created_at, last_played_at
		FROM saved_players ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []person.SavedPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Player returns one saved player by id.
func (s *Store) Player(ctx context.Context, id string) (person.SavedPlayer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, avatar_color, gender_filter, age_min, age_max, created_at, last_played_at
		FROM saved_players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return person.SavedPlayer{}, ErrNotFound
	}
	return p, err
}

// DeletePlayer removes a saved player.
func (s *Store) DeletePlayer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchPlayer updates a player's last-played timestamp.
func (s *Store) TouchPlayer(ctx context.Context, id string, playedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE saved_players SET last_played_at = ? WHERE id = ?`,
		toMillis(playedAt), id)
	if err != nil {
		return fmt.Errorf("touch player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (person.SavedPlayer, error) {
	var (
		p          person.SavedPlayer
		filterJSON string
		createdAt  int64
		lastPlayed sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.AvatarColor, &filterJSON,
		&p.AgeRange[0], &p.AgeRange[1], &createdAt, &lastPlayed)
	if err != nil {
		return person.SavedPlayer{}, err
	}
	if err := json.Unmarshal([]byte(filterJSON), &p.GenderFilter); err != nil {
		return person.SavedPlayer{}, fmt.Errorf("decode gender filter: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	if lastPlayed.Valid {
		p.LastPlayedAt = fromMillis(lastPlayed.Int64)
	}
	return p, nil
}
