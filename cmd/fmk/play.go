package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fmkparty/fmk/internal/catalog"
	"github.com/fmkparty/fmk/internal/game"
	"github.com/fmkparty/fmk/internal/person"
	"github.com/fmkparty/fmk/internal/randutil"
	"github.com/fmkparty/fmk/internal/storage"
	"github.com/fmkparty/fmk/internal/tui"
)

// customListSource is the slice of the store the picker needs.
type customListSource interface {
	CustomLists(ctx context.Context) ([]storage.CustomList, error)
	CustomPeople(ctx context.Context, listID string) ([]person.Person, error)
}

// PlayCmd runs the interactive game.
type PlayCmd struct {
	Players []string `help:"Player names for pass-and-play mode" short:"p"`
	Saved   bool     `help:"Use the saved player profiles for pass-and-play"`
	Timer   bool     `help:"Enable the decision timer"`
	Seed    *int64   `help:"Deterministic RNG seed (optional)"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, logger, err := setup(cli)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cat, err := catalog.New()
	if err != nil {
		return err
	}

	ctx := context.Background()
	prefs, err := store.Preferences(ctx)
	if err != nil {
		return err
	}

	timerCfg := cfg.TimerConfig()
	if c.Timer {
		timerCfg.Enabled = true
	}

	rng := randutil.NewFromTime()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	}

	ctrl := game.NewController(cat, store, quartz.NewReal(), rng, logger)

	items, err := categoryItems(ctx, cat, store)
	if err != nil {
		return err
	}

	players := make([]person.Player, 0, len(c.Players))
	for _, name := range c.Players {
		players = append(players, person.Player{ID: uuid.NewString(), Name: name})
	}
	playerFilters := map[string]tui.PlayerFilters{}
	if c.Saved {
		saved, err := store.Players(ctx)
		if err != nil {
			return err
		}
		for _, sp := range saved {
			players = append(players, sp.Player)
			playerFilters[sp.ID] = tui.PlayerFilters{
				Genders:  sp.GenderFilter,
				AgeRange: sp.AgeRange,
			}
		}
	}

	model := tui.New(ctrl, items, players, prefs.GenderFilter, prefs.AgeRange, timerCfg, logger)
	model.SetPlayerFilters(playerFilters)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetNotify(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if err := model.SaveErr(); err != nil {
		return err
	}

	if c.Saved {
		playedAt := time.Now()
		for _, p := range players {
			if err := store.TouchPlayer(ctx, p.ID, playedAt); err != nil {
				logger.Warn("Failed to update player", "player", p.ID, "err", err)
			}
		}
	}

	// Print the shareable recap after the alt screen closes.
	if summary := game.SummaryText(ctrl.State().Session); summary != "" {
		fmt.Println(summary)
	}
	return nil
}

// categoryItems assembles the picker list: catalog categories, the
// random mix, then the user's custom lists.
func categoryItems(ctx context.Context, cat *catalog.Catalog, store customListSource) ([]tui.CategoryItem, error) {
	var items []tui.CategoryItem
	total := 0
	for _, m := range cat.Meta() {
		items = append(items, tui.CategoryItem{
			ID:          m.ID,
			Name:        m.Name,
			PeopleCount: m.PeopleCount,
		})
		total += m.PeopleCount
	}
	items = append(items, tui.CategoryItem{
		ID:          catalog.RandomCategoryID,
		Name:        "Random Mix",
		PeopleCount: total,
	})

	lists, err := store.CustomLists(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		people, err := store.CustomPeople(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, tui.CategoryItem{
			ID:          l.ID,
			Name:        l.Name + " (custom)",
			PeopleCount: len(people),
			People:      people,
		})
	}
	return items, nil
}
