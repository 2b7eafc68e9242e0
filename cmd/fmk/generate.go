package main

import (
	"context"
	"fmt"

	"github.com/fmkparty/fmk/internal/ai"
	"github.com/fmkparty/fmk/internal/storage"
)

// GenerateCmd creates a custom category via the AI generator and saves
// it as a custom list.
type GenerateCmd struct {
	Prompt string `help:"Category description, e.g. '90s sitcom actors'" required:""`
	Count  int    `help:"How many people to generate" default:"30"`
	Name   string `help:"Display name for the list; defaults to the prompt"`
}

func (c *GenerateCmd) Run(cli *CLI) error {
	cfg, logger, err := setup(cli)
	if err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("no AI api key configured; set ai.api_key in %s or GOOGLE_AI_API_KEY", cli.Config)
	}

	client, err := ai.NewClient(cfg.AI.APIKey, logger, ai.WithModel(cfg.AI.Model))
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Generation honours the stored gender and age filters so the list
	// is playable under the user's settings.
	ctx := context.Background()
	prefs, err := store.Preferences(ctx)
	if err != nil {
		return err
	}

	if score, err := client.ValidatePrompt(ctx, c.Prompt); err != nil {
		logger.Warn("Prompt validation unavailable", "err", err)
	} else if score < 50 {
		return fmt.Errorf("prompt %q scored %d/100; try describing a group of well-known public figures", c.Prompt, score)
	}

	list, err := client.GenerateCategory(ctx, c.Prompt, c.Count, prefs.GenderFilter, prefs.AgeRange)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = list.Name
	}
	if err := store.SaveCustomList(ctx, storage.CustomList{
		ID:     list.ID,
		Name:   name,
		Prompt: list.Prompt,
	}); err != nil {
		return err
	}
	if err := store.SaveCustomPeople(ctx, list.ID, list.People); err != nil {
		return err
	}

	fmt.Printf("Generated %q with %d people (list id %s):\n", name, len(list.People), list.ID)
	for _, p := range list.People {
		year := ""
		if p.BirthYear != 0 {
			year = fmt.Sprintf(" (b. %d)", p.BirthYear)
		}
		fmt.Printf("  %s%s\n", p.Name, year)
	}
	return nil
}
