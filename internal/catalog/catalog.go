// Package catalog serves the built-in category data: curated lists of
// people, one embedded JSON file per category.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/fmkparty/fmk/internal/person"
)

//go:embed data/*.json
var dataFS embed.FS

// RandomCategoryID is the synthetic category that mixes all categories.
const RandomCategoryID = "random"

// RandomPoolSize bounds how many people the random-mix category draws
// before filtering, so each round works a fixed-size pool instead of
// the whole catalog.
const RandomPoolSize = 100

// Category is one curated category with its people.
type Category struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	People      []person.Person `json:"people"`
}

// Meta is the display summary for a category.
type Meta struct {
	ID          string
	Name        string
	Description string
	Icon        string
	PeopleCount int
}

// Catalog holds the parsed category data.
type Catalog struct {
	categories []Category
	byID       map[string]*Category
}

// New parses the embedded category files.
func New() (*Catalog, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("read embedded data: %w", err)
	}

	c := &Catalog{byID: make(map[string]*Category)}
	for _, entry := range entries {
		raw, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var cat Category
		if err := json.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		for i := range cat.People {
			cat.People[i].Source = person.SourceCatalog
			cat.People[i].CategoryID = cat.ID
		}
		c.categories = append(c.categories, cat)
	}

	sort.Slice(c.categories, func(i, j int) bool {
		return c.categories[i].ID < c.categories[j].ID
	})
	for i := range c.categories {
		c.byID[c.categories[i].ID] = &c.categories[i]
	}
	return c, nil
}

// Meta returns display metadata for every category.
func (c *Catalog) Meta() []Meta {
	metas := make([]Meta, 0, len(c.categories))
	for _, cat := range c.categories {
		metas = append(metas, Meta{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			Icon:        cat.Icon,
			PeopleCount: len(cat.People),
		})
	}
	return metas
}

// ByID returns a category by id.
func (c *Catalog) ByID(id string) (Category, bool) {
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return *cat, true
}

// PeopleByCategory returns the people in a category, or nil when the
// category is unknown.
func (c *Catalog) PeopleByCategory(id string) []person.Person {
	cat, ok := c.byID[id]
	if !ok {
		return nil
	}
	return append([]person.Person(nil), cat.People...)
}

// AllPeople returns every person across all categories.
func (c *Catalog) AllPeople() []person.Person {
	var all []person.Person
	for _, cat := range c.categories {
		all = append(all, cat.People...)
	}
	return all
}

// RandomPeople returns up to n people drawn uniformly across the whole
// catalog, shuffled with the provided RNG.
func (c *Catalog) RandomPeople(rng *rand.Rand, n int) []person.Person {
	all := c.AllPeople()
	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
