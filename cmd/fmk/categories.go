package main

import (
	"context"
	"fmt"

	"github.com/fmkparty/fmk/internal/catalog"
)

// CategoriesCmd lists the built-in categories and the user's custom
// lists.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(cli *CLI) error {
	cfg, _, err := setup(cli)
	if err != nil {
		return err
	}

	cat, err := catalog.New()
	if err != nil {
		return err
	}

	fmt.Println("Built-in categories:")
	for _, m := range cat.Meta() {
		fmt.Printf("  %-14s %s (%d people)\n", m.ID, m.Name, m.PeopleCount)
	}
	fmt.Printf("  %-14s Random Mix (draws %d across all categories)\n",
		catalog.RandomCategoryID, catalog.RandomPoolSize)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lists, err := store.CustomLists(context.Background())
	if err != nil {
		return err
	}
	if len(lists) > 0 {
		fmt.Println("\nCustom lists:")
		for _, l := range lists {
			fmt.Printf("  %-14s %s (%d people)\n", l.ID, l.Name, l.PeopleCount)
		}
	}
	return nil
}
