// Package selection picks round people: filtering by exclusion set,
// gender, and age, then a uniform shuffle and a take-3. All randomness
// flows through an injected RNG so callers stay deterministic in tests.
package selection

import (
	rand "math/rand/v2"
	"slices"
	"time"

	"github.com/fmkparty/fmk/internal/person"
)

// Options constrain which people are eligible for a round.
type Options struct {
	// Exclude holds person ids that must not be returned (already shown
	// this session).
	Exclude map[string]struct{}
	// Genders is the allowed gender list. Callers guarantee it is
	// non-empty; an empty list matches nobody.
	Genders []person.Gender
	// AgeRange is the inclusive [min, max] age window. People without a
	// birth year always pass the age test.
	AgeRange [2]int
	// Now anchors age derivation. Zero means time.Now().
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Triplet is the three people presented in one round.
type Triplet [3]person.Person

// IDs returns the triplet's person ids.
func (t Triplet) IDs() [3]string {
	return [3]string{t[0].ID, t[1].ID, t[2].ID}
}

// Filter returns the subset of people passing the exclusion, gender,
// and age constraints. The input slice is not modified.
func Filter(people []person.Person, opts Options) []person.Person {
	now := opts.now()
	minAge, maxAge := opts.AgeRange[0], opts.AgeRange[1]

	var eligible []person.Person
	for _, p := range people {
		if _, used := opts.Exclude[p.ID]; used {
			continue
		}
		if !slices.Contains(opts.Genders, p.Gender) {
			continue
		}
		if age, ok := p.Age(now); ok && (age < minAge || age > maxAge) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// Shuffle returns a uniform random permutation of people via
// Fisher-Yates. The input slice is not modified.
func Shuffle(rng *rand.Rand, people []person.Person) []person.Person {
	out := append([]person.Person(nil), people...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SelectThree filters, shuffles, and returns the first three eligible
// people. ok is false when fewer than three people remain eligible.
// The returned ids are always pairwise distinct.
func SelectThree(rng *rand.Rand, people []person.Person, opts Options) (Triplet, bool) {
	eligible := Filter(people, opts)
	if len(eligible) < 3 {
		return Triplet{}, false
	}
	shuffled := Shuffle(rng, eligible)
	return Triplet{shuffled[0], shuffled[1], shuffled[2]}, true
}

// HasEnough reports whether at least three people remain eligible under
// the given options.
func HasEnough(people []person.Person, opts Options) bool {
	return len(Filter(people, opts)) >= 3
}
