package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmkparty/fmk/internal/game"
	"github.com/fmkparty/fmk/internal/person"
	"github.com/fmkparty/fmk/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "fmk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()
	_, err := storage.Open("  ")
	require.Error(t, err)
}

func TestPreferencesDefaultsWhenUnsaved(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	prefs, err := s.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultPreferences(), prefs)
}

func TestPreferencesRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	want := storage.Preferences{
		GenderFilter:       []person.Gender{person.Female, person.Other},
		AgeRange:           [2]int{25, 45},
		SoundEnabled:       false,
		HapticsEnabled:     true,
		Timer:              game.TimerConfig{Enabled: true, DecisionTime: 15, DiscussionTime: 0, TickSound: false},
		OnboardingComplete: true,
		UpdatedAt:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SavePreferences(ctx, want))

	got, err := s.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Second save overwrites the single row.
	want.AgeRange = [2]int{18, 30}
	require.NoError(t, s.SavePreferences(ctx, want))
	got, err = s.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, [2]int{18, 30}, got.AgeRange)
}

func TestSavePreferencesValidates(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := storage.DefaultPreferences()
	p.GenderFilter = nil
	require.Error(t, s.SavePreferences(ctx, p))

	p = storage.DefaultPreferences()
	p.AgeRange = [2]int{50, 20}
	require.Error(t, s.SavePreferences(ctx, p))
}

func TestHistorySaveAndList(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	first := &game.Session{
		ID:           "s1",
		Mode:         game.Solo,
		CategoryID:   "movie-stars",
		CategoryName: "Movie Stars",
		Rounds: []game.Round{{
			ID:     "r1",
			People: []person.Person{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}},
			Assignments: []game.PersonAssignment{
				{Person: person.Person{ID: "a", Name: "A"}, Assignment: game.Fuck},
				{Person: person.Person{ID: "b", Name: "B"}, Assignment: game.Marry},
				{Person: person.Person{ID: "c", Name: "C"}, Assignment: game.Kill},
			},
			StartedAt: time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		}},
		StartedAt:   time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, 6, 1, 20, 5, 0, 0, time.UTC),
	}
	second := &game.Session{
		ID:           "s2",
		Mode:         game.PassAndPlay,
		CategoryID:   "musicians",
		CategoryName: "Musicians",
		Players:      []person.Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Ben"}},
		Rounds:       []game.Round{{ID: "r2"}},
		StartedAt:    time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
		CompletedAt:  time.Date(2025, 6, 2, 20, 10, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveSession(ctx, first))
	require.NoError(t, s.SaveSession(ctx, second))

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "s2", entries[0].ID)
	assert.Equal(t, game.PassAndPlay, entries[0].Mode)
	assert.Equal(t, []person.Player{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Ben"}}, entries[0].Players)

	assert.Equal(t, "s1", entries[1].ID)
	assert.Equal(t, 1, entries[1].TotalRounds)
	require.Len(t, entries[1].Rounds, 1)
	assert.Equal(t, game.Marry, entries[1].Rounds[0].Assignments[1].Assignment)
	assert.Equal(t, first.CompletedAt, entries[1].PlayedAt)
}

func TestHistorySaveWithoutCompletionUsesStart(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveSession(ctx, &game.Session{
		ID: "s3", Mode: game.Solo, CategoryID: "chefs", CategoryName: "Chefs",
		Rounds: []game.Round{{ID: "r"}}, StartedAt: started,
	}))

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, started, entries[0].PlayedAt)
}

func TestHistoryDeleteAndClear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, &game.Session{
		ID: "s1", Mode: game.Solo, CategoryID: "x", CategoryName: "X",
		StartedAt: time.Now(),
	}))
	require.NoError(t, s.DeleteHistory(ctx, "s1"))
	assert.ErrorIs(t, s.DeleteHistory(ctx, "s1"), storage.ErrNotFound)

	require.NoError(t, s.SaveSession(ctx, &game.Session{
		ID: "s2", Mode: game.Solo, CategoryID: "x", CategoryName: "X",
		StartedAt: time.Now(),
	}))
	require.NoError(t, s.ClearHistory(ctx))
	entries, err := s.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlayersCRUD(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	ana := person.SavedPlayer{
		Player:       person.Player{ID: "p1", Name: "Ana"},
		AvatarColor:  "#e91e63",
		GenderFilter: []person.Gender{person.Male},
		AgeRange:     [2]int{18, 40},
		CreatedAt:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	ben := person.SavedPlayer{
		Player:       person.Player{ID: "p2", Name: "Ben"},
		AvatarColor:  "#2196f3",
		GenderFilter: person.DefaultGenderFilter(),
		AgeRange:     person.DefaultAgeRange(),
		CreatedAt:    time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SavePlayer(ctx, ana))
	require.NoError(t, s.SavePlayer(ctx, ben))

	players, err := s.Players(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, ana, players[0]) // oldest first
	assert.Equal(t, ben, players[1])

	// Rename is an upsert on the same id.
	ana.Name = "Anna"
	require.NoError(t, s.SavePlayer(ctx, ana))
	got, err := s.Player(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)

	require.NoError(t, s.DeletePlayer(ctx, "p2"))
	assert.ErrorIs(t, s.DeletePlayer(ctx, "p2"), storage.ErrNotFound)
	_, err = s.Player(ctx, "p2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTouchPlayer(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePlayer(ctx, person.SavedPlayer{
		Player:       person.Player{ID: "p1", Name: "Ana"},
		GenderFilter: person.DefaultGenderFilter(),
		AgeRange:     person.DefaultAgeRange(),
	}))

	playedAt := time.Date(2025, 6, 10, 21, 30, 0, 0, time.UTC)
	require.NoError(t, s.TouchPlayer(ctx, "p1", playedAt))

	got, err := s.Player(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, playedAt, got.LastPlayedAt)

	assert.ErrorIs(t, s.TouchPlayer(ctx, "missing", playedAt), storage.ErrNotFound)
}

func TestSavePlayerValidates(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.Error(t, s.SavePlayer(context.Background(), person.SavedPlayer{}))
}

func TestCustomListsAndPeople(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	list := storage.CustomList{
		ID:          "l1",
		Name:        "90s Sitcom Cast",
		Description: "Generated from a prompt",
		Prompt:      "actors from 90s sitcoms",
	}
	require.NoError(t, s.SaveCustomList(ctx, list))
	require.NoError(t, s.SaveCustomPeople(ctx, "l1", []person.Person{
		{ID: "c1", Name: "One", Gender: person.Male, BirthYear: 1966},
		{ID: "c2", Name: "Two", Gender: person.Female, BirthYear: 1964},
		{ID: "c3", Name: "Three", Gender: person.Other},
	}))

	lists, err := s.CustomLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "90s Sitcom Cast", lists[0].Name)
	assert.Equal(t, 3, lists[0].PeopleCount)

	people, err := s.CustomPeople(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, people, 3)
	for _, p := range people {
		assert.Equal(t, person.SourceCustom, p.Source)
		assert.Equal(t, "l1", p.ListID)
	}
	assert.Equal(t, 0, people[2].BirthYear)
}

func TestDeleteCustomListCascades(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCustomList(ctx, storage.CustomList{ID: "l1", Name: "L"}))
	require.NoError(t, s.SaveCustomPeople(ctx, "l1", []person.Person{
		{ID: "c1", Name: "One", Gender: person.Male},
	}))

	require.NoError(t, s.DeleteCustomList(ctx, "l1"))
	assert.ErrorIs(t, s.DeleteCustomList(ctx, "l1"), storage.ErrNotFound)

	people, err := s.CustomPeople(ctx, "l1")
	require.NoError(t, err)
	assert.Empty(t, people)

	_, err = s.CustomList(ctx, "l1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteCustomPerson(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCustomList(ctx, storage.CustomList{ID: "l1", Name: "L"}))
	require.NoError(t, s.SaveCustomPeople(ctx, "l1", []person.Person{
		{ID: "c1", Name: "One", Gender: person.Male},
		{ID: "c2", Name: "Two", Gender: person.Female},
	}))

	require.NoError(t, s.DeleteCustomPerson(ctx, "c1"))
	assert.ErrorIs(t, s.DeleteCustomPerson(ctx, "c1"), storage.ErrNotFound)

	people, err := s.CustomPeople(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "c2", people[0].ID)
}
