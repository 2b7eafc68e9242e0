package main

import (
	"context"
	"fmt"

	"github.com/fmkparty/fmk/internal/game"
)

// HistoryCmd shows or clears past games.
type HistoryCmd struct {
	Clear bool `help:"Delete all history"`
}

func (c *HistoryCmd) Run(cli *CLI) error {
	cfg, _, err := setup(cli)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if c.Clear {
		if err := store.ClearHistory(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	entries, err := store.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No games played yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %s  %d rounds  (%s)\n",
			e.PlayedAt.Local().Format("2006-01-02 15:04"),
			e.CategoryName, e.TotalRounds, e.Mode)
		for _, r := range e.Rounds {
			for _, a := range game.Assignments {
				for _, pa := range r.Assignments {
					if pa.Assignment == a {
						fmt.Printf("    %-6s %s\n", a, pa.Person.Name)
					}
				}
			}
			fmt.Println()
		}
	}
	return nil
}
