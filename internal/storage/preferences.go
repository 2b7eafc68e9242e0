package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fmkparty/fmk/internal/game"
	"github.com/fmkparty/fmk/internal/person"
)

// Preferences is the single-row user preference record.
type Preferences struct {
	GenderFilter       []person.Gender
	AgeRange           [2]int
	SoundEnabled       bool
	HapticsEnabled     bool
	Timer              game.TimerConfig
	OnboardingComplete bool
	UpdatedAt          time.Time
}

// DefaultPreferences are the out-of-box settings for new users.
func DefaultPreferences() Preferences {
	return Preferences{
		GenderFilter:   person.DefaultGenderFilter(),
		AgeRange:       person.DefaultAgeRange(),
		SoundEnabled:   true,
		HapticsEnabled: true,
		Timer:          game.DefaultTimerConfig(),
	}
}

// Preferences returns the stored preferences, or the defaults when none
// have been saved yet.
func (s *Store) Preferences(ctx context.Context) (Preferences, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT gender_filter, age_min, age_max, sound_enabled,
		       haptics_enabled, timer_config, onboarding_complete, updated_at
		FROM preferences WHERE id = 1`)

	var (
		p          Preferences
		filterJSON string
		timerJSON  string
		updatedAt  int64
	)
	err := row.Scan(&filterJSON, &p.AgeRange[0], &p.AgeRange[1], &p.SoundEnabled,
		&p.HapticsEnabled, &timerJSON, &p.OnboardingComplete, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(filterJSON), &p.GenderFilter); err != nil {
		return Preferences{}, fmt.Errorf("decode gender filter: %w", err)
	}
	if err := json.Unmarshal([]byte(timerJSON), &p.Timer); err != nil {
		return Preferences{}, fmt.Errorf("decode timer config: %w", err)
	}
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// SavePreferences upserts the preference row.
func (s *Store) SavePreferences(ctx context.Context, p Preferences) error {
	if len(p.GenderFilter) == 0 {
		return fmt.Errorf("gender filter must not be empty")
	}
	if p.AgeRange[0] > p.AgeRange[1] {
		return fmt.Errorf("age range min %d exceeds max %d", p.AgeRange[0], p.AgeRange[1])
	}

	filterJSON, err := json.Marshal(p.GenderFilter)
	if err != nil {
		return fmt.Errorf("encode gender filter: %w", err)
	}
	timerJSON, err := json.Marshal(p.Timer)
	if err != nil {
		return fmt.Errorf("encode timer config: %w", err)
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, gender_filter, age_min, age_max, sound_enabled,
			haptics_enabled, timer_config, onboarding_complete, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			gender_filter = excluded.gender_filter,
			age_min = excluded.age_min,
			age_max = excluded.age_max,
			sound_enabled = excluded.sound_enabled,
			haptics_enabled = excluded.haptics_enabled,
			timer_config = excluded.timer_config,
			onboarding_complete = excluded.onboarding_complete,
			updated_at = excluded.updated_at`,
		string(filterJSON), p.AgeRange[0], p.AgeRange[1], p.SoundEnabled,
		p.HapticsEnabled, string(timerJSON), p.OnboardingComplete, toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
