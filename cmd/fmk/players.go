package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fmkparty/fmk/internal/person"
)

// PlayersCmd manages saved player profiles.
type PlayersCmd struct {
	Add    PlayersAddCmd    `cmd:"" help:"Save a player profile"`
	List   PlayersListCmd   `cmd:"" help:"List saved players"`
	Remove PlayersRemoveCmd `cmd:"" help:"Remove a saved player"`
}

// PlayersAddCmd saves a new player.
type PlayersAddCmd struct {
	Name    string   `arg:"" help:"Player name"`
	Color   string   `help:"Avatar color as a hex value" default:"#7D56F4"`
	Genders []string `help:"Gender filter (male, female, other); default all"`
	MinAge  int      `help:"Minimum age filter" default:"18"`
	MaxAge  int      `help:"Maximum age filter" default:"100"`
}

func (c *PlayersAddCmd) Run(cli *CLI) error {
	cfg, _, err := setup(cli)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := person.DefaultGenderFilter()
	if len(c.Genders) > 0 {
		filter = filter[:0]
		for _, g := range c.Genders {
			parsed, err := person.ParseGender(g)
			if err != nil {
				return err
			}
			filter = append(filter, parsed)
		}
	}

	p := person.SavedPlayer{
		Player:       person.Player{ID: uuid.NewString(), Name: c.Name},
		AvatarColor:  c.Color,
		GenderFilter: filter,
		AgeRange:     [2]int{c.MinAge, c.MaxAge},
	}
	if err := store.SavePlayer(context.Background(), p); err != nil {
		return err
	}
	fmt.Printf("Saved player %s (%s)\n", p.Name, p.ID)
	return nil
}

// PlayersListCmd lists saved players.
type PlayersListCmd struct{}

func (c *PlayersListCmd) Run(cli *CLI) error {
	cfg, _, err := setup(cli)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	players, err := store.Players(context.Background())
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Println("No saved players.")
		return nil
	}

	for _, p := range players {
		genders := make([]string, len(p.GenderFilter))
		for i, g := range p.GenderFilter {
			genders[i] = string(g)
		}
		last := "never played"
		if !p.LastPlayedAt.IsZero() {
			last = "last played " + p.LastPlayedAt.Local().Format("2006-01-02")
		}
		fmt.Printf("%-12s %s  ages %d-%d, %s, %s\n",
			p.Name, p.ID, p.AgeRange[0], p.AgeRange[1], strings.Join(genders, "/"), last)
	}
	return nil
}

// PlayersRemoveCmd deletes a saved player.
type PlayersRemoveCmd struct {
	ID string `arg:"" help:"Player id"`
}

func (c *PlayersRemoveCmd) Run(cli *CLI) error {
	cfg, _, err := setup(cli)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeletePlayer(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("Removed.")
	return nil
}
