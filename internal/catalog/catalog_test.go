package catalog

import (
	"testing"

	"github.com/fmkparty/fmk/internal/person"
	"github.com/fmkparty/fmk/internal/randutil"
)

func TestNewLoadsEmbeddedCategories(t *testing.T) {
	t.Parallel()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	metas := c.Meta()
	if len(metas) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(metas))
	}
	for _, m := range metas {
		if m.PeopleCount < 3 {
			t.Errorf("category %s has only %d people; a round needs 3", m.ID, m.PeopleCount)
		}
	}
}

func TestPeopleCarrySourceAndCategory(t *testing.T) {
	t.Parallel()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	people := c.PeopleByCategory("movie-stars")
	if len(people) == 0 {
		t.Fatal("expected movie-stars people")
	}
	for _, p := range people {
		if p.Source != person.SourceCatalog {
			t.Errorf("%s: expected catalog source, got %q", p.ID, p.Source)
		}
		if p.CategoryID != "movie-stars" {
			t.Errorf("%s: expected category id set, got %q", p.ID, p.CategoryID)
		}
		if _, err := person.ParseGender(string(p.Gender)); err != nil {
			t.Errorf("%s: %v", p.ID, err)
		}
	}
}

func TestAllPeopleHaveUniqueIDs(t *testing.T) {
	t.Parallel()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seen := map[string]string{}
	for _, p := range c.AllPeople() {
		if prev, dup := seen[p.ID]; dup {
			t.Errorf("id %s appears in both %s and %s", p.ID, prev, p.CategoryID)
		}
		seen[p.ID] = p.CategoryID
	}
}

func TestRandomPeopleBoundedAndDistinct(t *testing.T) {
	t.Parallel()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	people := c.RandomPeople(randutil.New(42), 20)
	if len(people) != 20 {
		t.Fatalf("expected 20 people, got %d", len(people))
	}
	seen := map[string]bool{}
	for _, p := range people {
		if seen[p.ID] {
			t.Errorf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}

	// Asking for more than the catalog holds returns everything.
	all := c.RandomPeople(randutil.New(1), 100000)
	if len(all) != len(c.AllPeople()) {
		t.Errorf("expected full catalog, got %d", len(all))
	}
}

func TestUnknownCategory(t *testing.T) {
	t.Parallel()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := c.PeopleByCategory("nope"); got != nil {
		t.Errorf("expected nil for unknown category, got %d people", len(got))
	}
	if _, ok := c.ByID("nope"); ok {
		t.Error("unknown category must not resolve")
	}
}
